// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskmgr/internal/service"
)

const (
	// ListSeparator is the separator line for collection sections.
	ListSeparator = "------------"
)

// FormatTask formats a task line followed by its description.
// Format: "{LABEL:>4}  {TITLE}\n      {DESCRIPTION}\n". The label is the
// reference accepted by done and rm ("3", "c3").
func FormatTask(w io.Writer, label string, task service.Task) {
	fmt.Fprintf(w, "%4s  %s\n", label, normalizeTitle(task.Title))
	if desc := normalizeText(task.Description); desc != "" {
		fmt.Fprintf(w, "      %s\n", desc)
	}
}

// TaskLabel returns the reference label for the num-th task (1-based) of c.
func TaskLabel(c service.Collection, num int) string {
	if c == service.Completed {
		return fmt.Sprintf("c%d", num)
	}
	return fmt.Sprintf("%d", num)
}

// FormatCollectionHeader formats a collection section header.
func FormatCollectionHeader(w io.Writer, c service.Collection, count int) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%s (%d)\n", CollectionTitle(c), count)
	fmt.Fprintln(w, ListSeparator)
}

// FormatCollectionName formats a collection line for the lists command.
func FormatCollectionName(w io.Writer, c service.Collection, count int) {
	fmt.Fprintf(w, "%-10s %d\n", CollectionTitle(c), count)
}

// CollectionTitle is the display name of a collection.
func CollectionTitle(c service.Collection) string {
	switch c {
	case service.Active:
		return "Active"
	case service.Completed:
		return "Completed"
	default:
		return string(c)
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeText(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// normalizeText flattens newlines and returns "" for whitespace-only text.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
