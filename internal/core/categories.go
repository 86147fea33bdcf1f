package core

import "strings"

// PredefinedCategories is the fixed list shown first in every category
// picker, before anything discovered in the user's own data.
var PredefinedCategories = []string{
	"Salary",
	"Food",
	"Transport",
	"Housing",
	"Utilities",
	"Entertainment",
	"Health",
	"Education",
	"Travel",
	"Other",
}

// Catalog reconciles the predefined category list with categories observed
// in the user's data. Predefined entries always come first in their given
// order; discovered entries follow in first-seen order, deduplicated against
// both lists. A Catalog is rebuilt whenever the underlying data changes.
type Catalog struct {
	predefined []string
	discovered []string
	seen       map[string]struct{}
}

func NewCatalog(predefined []string) *Catalog {
	c := &Catalog{
		predefined: make([]string, 0, len(predefined)),
		seen:       make(map[string]struct{}, len(predefined)),
	}
	for _, name := range predefined {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := c.seen[name]; dup {
			continue
		}
		c.seen[name] = struct{}{}
		c.predefined = append(c.predefined, name)
	}
	return c
}

// Observe records category names seen in existing data. Blanks and names
// already known are ignored; new names join the discovered tail. It reports
// whether at least one new category was added, which lets a caller append a
// just-committed custom category without waiting for a reload.
func (c *Catalog) Observe(names ...string) bool {
	added := false
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := c.seen[name]; dup {
			continue
		}
		c.seen[name] = struct{}{}
		c.discovered = append(c.discovered, name)
		added = true
	}
	return added
}

// ObserveTransactions records the categories of the given transactions.
func (c *Catalog) ObserveTransactions(ts []Transaction) {
	for _, t := range ts {
		c.Observe(t.Category)
	}
}

// All returns the full reconciled list: predefined first, discovered after,
// no duplicates. The returned slice is a copy.
func (c *Catalog) All() []string {
	out := make([]string, 0, len(c.predefined)+len(c.discovered))
	out = append(out, c.predefined...)
	out = append(out, c.discovered...)
	return out
}

// Known reports whether a category is already in the catalog.
func (c *Catalog) Known(name string) bool {
	_, ok := c.seen[strings.TrimSpace(name)]
	return ok
}
