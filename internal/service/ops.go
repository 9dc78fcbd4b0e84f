package service

import "slices"

// Append returns a new slice with task added at the end. list is not modified.
func Append(list []Task, task Task) []Task {
	out := make([]Task, 0, len(list)+1)
	out = append(out, list...)
	return append(out, task)
}

// IndexOf returns the position of the first task with the given id, or -1.
func IndexOf(list []Task, id string) int {
	return slices.IndexFunc(list, func(t Task) bool { return t.ID == id })
}

// Remove returns a copy of list without any task carrying id, along with the
// first removed task. found is false when nothing matched.
func Remove(list []Task, id string) (out []Task, removed Task, found bool) {
	out = make([]Task, 0, len(list))
	for _, t := range list {
		if t.ID == id {
			if !found {
				removed = t
				found = true
			}
			continue
		}
		out = append(out, t)
	}
	return out, removed, found
}

// Toggle moves the task with id between the two collections.
// The active list is searched first. The moved task has its Completed flag
// flipped and is appended to the destination. from reports the collection it
// left. When id is in neither list, both lists come back unchanged and found
// is false.
func Toggle(active, completed []Task, id string) (newActive, newCompleted []Task, moved Task, from Collection, found bool) {
	if IndexOf(active, id) >= 0 {
		newActive, moved, _ = Remove(active, id)
		moved.Completed = true
		return newActive, Append(completed, moved), moved, Active, true
	}
	if IndexOf(completed, id) >= 0 {
		newCompleted, moved, _ = Remove(completed, id)
		moved.Completed = false
		return Append(active, moved), newCompleted, moved, Completed, true
	}
	return active, completed, Task{}, "", false
}

// Clone returns an independent copy of list. A nil list clones to an empty,
// non-nil slice so it serializes as [].
func Clone(list []Task) []Task {
	out := make([]Task, len(list))
	copy(out, list)
	return out
}
