// Package service defines the task model and the interface the commands and UI use.
package service

import "fmt"

// Task represents a single task item.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// Collection names one of the two task collections.
type Collection string

const (
	// Active holds tasks with Completed == false.
	Active Collection = "active"

	// Completed holds tasks with Completed == true.
	Completed Collection = "completed"
)

// Collections lists both collections in display order.
var Collections = []Collection{Active, Completed}

// Key returns the durable storage slot key for the collection.
func (c Collection) Key() string {
	switch c {
	case Active:
		return "activeTasks"
	case Completed:
		return "completedTasks"
	default:
		return ""
	}
}

// Other returns the opposite collection.
func (c Collection) Other() Collection {
	if c == Completed {
		return Active
	}
	return Completed
}

// ParseCollection converts a name ("active" or "completed") to a Collection.
func ParseCollection(s string) (Collection, error) {
	switch Collection(s) {
	case Active, Completed:
		return Collection(s), nil
	default:
		return "", fmt.Errorf("unknown collection: %s", s)
	}
}

// Belongs reports whether the task's completion flag matches the collection.
func (c Collection) Belongs(t Task) bool {
	return t.Completed == (c == Completed)
}
