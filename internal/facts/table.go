package facts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCategory is returned when a table is missing facts for a category.
var ErrEmptyCategory = errors.New("facts: category has no facts")

// ErrInvalidCategory is returned when a table references a category outside the closed set.
var ErrInvalidCategory = errors.New("facts: invalid category")

// Provider supplies the facts stored under a category.
type Provider interface {
	Facts(c Category) []string
}

// Table is an immutable, total mapping from Category to its ordered facts.
type Table struct {
	entries map[Category][]string
}

// NewTable validates and freezes the provided entries. Every category from
// Categories must have at least one non-blank fact.
func NewTable(entries map[Category][]string) (*Table, error) {
	frozen := make(map[Category][]string, len(allCategories))
	for c, list := range entries {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidCategory, c)
		}
		cleaned := make([]string, 0, len(list))
		for _, f := range list {
			if strings.TrimSpace(f) == "" {
				continue
			}
			cleaned = append(cleaned, f)
		}
		frozen[c] = cleaned
	}
	for _, c := range allCategories {
		if len(frozen[c]) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyCategory, c)
		}
	}
	return &Table{entries: frozen}, nil
}

// MustTable is like NewTable but panics on invalid input.
func MustTable(entries map[Category][]string) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Facts returns a copy of the facts stored under c, or nil for an unknown category.
func (t *Table) Facts(c Category) []string {
	if t == nil {
		return nil
	}
	list, ok := t.entries[c]
	if !ok {
		return nil
	}
	return append([]string(nil), list...)
}

// Len returns the number of facts stored under c.
func (t *Table) Len(c Category) int {
	if t == nil {
		return 0
	}
	return len(t.entries[c])
}

// Total returns the number of facts across all categories.
func (t *Table) Total() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, list := range t.entries {
		n += len(list)
	}
	return n
}

// Contains reports whether fact is stored under c.
func (t *Table) Contains(c Category, fact string) bool {
	if t == nil {
		return false
	}
	for _, f := range t.entries[c] {
		if f == fact {
			return true
		}
	}
	return false
}
