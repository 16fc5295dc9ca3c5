package models

import "strings"

// Category is a spending category with the keywords that classify into it.
// Categories are seeded once with a fixed default set and never auto-deleted;
// creation order is the classification order.
type Category struct {
	// ID is the insertion-ordered row id.
	ID int64

	// Name is the unique category name ("Food", "Transport", ...).
	Name string

	// Keywords is a comma-delimited list of lowercase match terms.
	Keywords string

	// Glyph is the display symbol shown next to the name.
	Glyph string
}

// Label is the display form persisted on expenses: "glyph name".
func (c Category) Label() string {
	return c.Glyph + " " + c.Name
}

// KeywordList splits Keywords into trimmed, non-empty terms.
func (c Category) KeywordList() []string {
	parts := strings.Split(c.Keywords, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
