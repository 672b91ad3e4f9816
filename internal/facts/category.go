// Package facts holds the fact catalog and category resolution used by the bot.
package facts

// Category identifies one of the fixed fact topics.
type Category uint8

const (
	// CategoryUnknown is the zero value and never present in a Table.
	CategoryUnknown Category = iota
	// CategoryScience covers physics, chemistry and biology facts.
	CategoryScience
	// CategoryHistory covers historical facts.
	CategoryHistory
	// CategoryNature covers wildlife and geography facts.
	CategoryNature
	// CategoryRandom covers everything else.
	CategoryRandom
)

var categoryLabels = [...]string{
	CategoryUnknown: "",
	CategoryScience: "Science",
	CategoryHistory: "History",
	CategoryNature:  "Nature",
	CategoryRandom:  "Random",
}

var allCategories = []Category{CategoryScience, CategoryHistory, CategoryNature, CategoryRandom}

// Categories returns the closed category set in menu order.
func Categories() []Category {
	return append([]Category(nil), allCategories...)
}

// String returns the user-facing label of the category.
func (c Category) String() string {
	if int(c) < len(categoryLabels) {
		return categoryLabels[c]
	}
	return ""
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	return c > CategoryUnknown && c <= CategoryRandom
}

// ParseCategory maps a label to its Category. Only an exact, case-sensitive
// match of a menu label is accepted.
func ParseCategory(label string) (Category, bool) {
	for _, c := range allCategories {
		if categoryLabels[c] == label {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// Labels returns the category labels in menu order.
func Labels() []string {
	out := make([]string, 0, len(allCategories))
	for _, c := range allCategories {
		out = append(out, c.String())
	}
	return out
}
