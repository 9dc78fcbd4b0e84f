package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"taskmgr/internal/output"
	"taskmgr/internal/service"
)

// TaskRef represents a parsed task reference: either a position within a
// collection or a literal task id.
type TaskRef struct {
	Collection service.Collection
	TaskNum    int    // 1-based task number; 0 when ID is set
	ID         string // literal task id
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ErrOutOfRange indicates a task number beyond the collection.
var ErrOutOfRange = errors.New("task number out of range")

// String returns the reference as the user would type it.
func (r TaskRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return output.TaskLabel(r.Collection, r.TaskNum)
}

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. If first arg is all digits → Nth active task
// 2. If first arg is a or c followed by digits (a1, c12) → Nth active or completed task
// 3. If first arg is a single a or c and second arg is all digits → separated reference (c 3)
// 4. If first arg is a single a or c with no second arg → error: task reference required
// 5. Otherwise → literal task id
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || args[0] == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	firstArg := args[0]

	// Case 1: All digits → active collection, numeric reference
	if isAllDigits(firstArg) {
		num, err := strconv.Atoi(firstArg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", firstArg)
		}
		return TaskRef{Collection: service.Active, TaskNum: num}, nil
	}

	if c, ok := collectionLetter(firstArg[0]); ok {
		// Case 2: <letter><digits>
		if len(firstArg) > 1 && isAllDigits(firstArg[1:]) {
			num, err := strconv.Atoi(firstArg[1:])
			if err != nil {
				return TaskRef{}, fmt.Errorf("invalid task reference: %s", firstArg)
			}
			return TaskRef{Collection: c, TaskNum: num}, nil
		}

		// Case 3 and 4: single letter
		if len(firstArg) == 1 {
			if len(args) < 2 {
				return TaskRef{}, ErrTaskRefRequired
			}
			if isAllDigits(args[1]) {
				num, err := strconv.Atoi(args[1])
				if err != nil {
					return TaskRef{}, fmt.Errorf("invalid task reference: %s", args[1])
				}
				return TaskRef{Collection: c, TaskNum: num}, nil
			}
			return TaskRef{}, fmt.Errorf("invalid task reference: %s %s", firstArg, args[1])
		}
	}

	// Case 5: literal id
	return TaskRef{ID: firstArg}, nil
}

// collectionLetter maps a reference prefix to its collection.
func collectionLetter(b byte) (service.Collection, bool) {
	switch b {
	case 'a':
		return service.Active, true
	case 'c':
		return service.Completed, true
	default:
		return "", false
	}
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ResolveTaskRef returns the id a reference points at. Numeric references
// reload their collection from storage first so numbering matches what
// list prints.
func ResolveTaskRef(ctx context.Context, svc service.Service, ref TaskRef) (string, error) {
	if ref.ID != "" {
		return ref.ID, nil
	}

	tasks := svc.Reload(ctx, ref.Collection)
	if ref.TaskNum < 1 || ref.TaskNum > len(tasks) {
		return "", fmt.Errorf("%w: %s", ErrOutOfRange, ref)
	}
	return tasks[ref.TaskNum-1].ID, nil
}
