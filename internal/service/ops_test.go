package service_test

import (
	"reflect"
	"testing"

	"taskmgr/internal/service"
)

func sample() (active, completed []service.Task) {
	active = []service.Task{
		{ID: "1", Title: "Buy milk", Description: "2%"},
		{ID: "2", Title: "Walk dog", Description: "park"},
	}
	completed = []service.Task{
		{ID: "3", Title: "File taxes", Description: "2025", Completed: true},
	}
	return active, completed
}

func TestAppend_DoesNotModifyInput(t *testing.T) {
	active, _ := sample()
	out := service.Append(active[:1], service.Task{ID: "9"})

	if len(out) != 2 || out[1].ID != "9" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if active[1].ID != "2" {
		t.Errorf("input slice was overwritten: %+v", active)
	}
}

func TestRemove(t *testing.T) {
	active, _ := sample()

	out, removed, found := service.Remove(active, "1")
	if !found {
		t.Fatal("expected task to be found")
	}
	if removed.Title != "Buy milk" {
		t.Errorf("expected removed 'Buy milk', got %q", removed.Title)
	}
	if len(out) != 1 || out[0].ID != "2" {
		t.Errorf("unexpected remaining tasks: %+v", out)
	}
	if len(active) != 2 {
		t.Error("input slice was modified")
	}
}

func TestRemove_Missing(t *testing.T) {
	active, _ := sample()

	out, _, found := service.Remove(active, "nope")
	if found {
		t.Error("expected found to be false")
	}
	if !reflect.DeepEqual(out, active) {
		t.Errorf("expected unchanged list, got %+v", out)
	}
}

func TestToggle_ActiveToCompleted(t *testing.T) {
	active, completed := sample()

	newActive, newCompleted, moved, from, found := service.Toggle(active, completed, "2")
	if !found {
		t.Fatal("expected found")
	}
	if from != service.Active {
		t.Errorf("expected from active, got %q", from)
	}
	if !moved.Completed {
		t.Error("expected moved task to be completed")
	}
	if len(newActive) != 1 || newActive[0].ID != "1" {
		t.Errorf("unexpected active: %+v", newActive)
	}
	if len(newCompleted) != 2 || newCompleted[1].ID != "2" {
		t.Errorf("expected task appended to completed, got %+v", newCompleted)
	}
}

func TestToggle_CompletedToActive(t *testing.T) {
	active, completed := sample()

	newActive, newCompleted, moved, from, found := service.Toggle(active, completed, "3")
	if !found || from != service.Completed {
		t.Fatalf("expected found in completed, got found=%v from=%q", found, from)
	}
	if moved.Completed {
		t.Error("expected moved task to be active")
	}
	if len(newCompleted) != 0 {
		t.Errorf("expected empty completed, got %+v", newCompleted)
	}
	if newActive[len(newActive)-1].ID != "3" {
		t.Errorf("expected task appended to active, got %+v", newActive)
	}
}

func TestToggle_Involution(t *testing.T) {
	active, completed := sample()

	a1, c1, _, _, _ := service.Toggle(active, completed, "1")
	a2, c2, _, _, _ := service.Toggle(a1, c1, "1")

	if len(a2) != len(active) || len(c2) != len(completed) {
		t.Fatalf("sizes changed: active %d completed %d", len(a2), len(c2))
	}
	idx := service.IndexOf(a2, "1")
	if idx < 0 {
		t.Fatal("task did not return to active")
	}
	if a2[idx] != active[0] {
		t.Errorf("task changed: %+v vs %+v", a2[idx], active[0])
	}
}

func TestToggle_UnknownID(t *testing.T) {
	active, completed := sample()

	newActive, newCompleted, _, _, found := service.Toggle(active, completed, "missing")
	if found {
		t.Error("expected not found")
	}
	if !reflect.DeepEqual(newActive, active) || !reflect.DeepEqual(newCompleted, completed) {
		t.Error("expected lists unchanged")
	}
}

func TestCollectionKeys(t *testing.T) {
	if service.Active.Key() != "activeTasks" {
		t.Errorf("unexpected active key %q", service.Active.Key())
	}
	if service.Completed.Key() != "completedTasks" {
		t.Errorf("unexpected completed key %q", service.Completed.Key())
	}
	if _, err := service.ParseCollection("archived"); err == nil {
		t.Error("expected error for unknown collection")
	}
}

func TestClone_NilIsEmpty(t *testing.T) {
	out := service.Clone(nil)
	if out == nil || len(out) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", out)
	}
}
