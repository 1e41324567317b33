package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a category name is not recognised.
var ErrUnknownCategory = errors.New("unknown spam category")

// Category names one class of unwanted message content.
type Category string

const (
	CategoryFinancialScams  Category = "financial_scams"
	CategoryUrgentAction    Category = "urgent_action"
	CategoryPromotional     Category = "promotional"
	CategorySuspiciousLinks Category = "suspicious_links"
	CategoryAdultContent    Category = "adult_content"
	CategoryCommonSpam      Category = "common_spam"
)

// categoryOrder is the evaluation order; the first matching category wins.
var categoryOrder = []Category{
	CategoryFinancialScams,
	CategoryUrgentAction,
	CategoryPromotional,
	CategorySuspiciousLinks,
	CategoryAdultContent,
	CategoryCommonSpam,
}

// Categories returns every known category in evaluation order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Known reports whether c is a recognised category.
func (c Category) Known() bool {
	for _, k := range categoryOrder {
		if k == c {
			return true
		}
	}
	return false
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// CategorySet is the set of enforced categories.
type CategorySet map[Category]struct{}

// AllCategories returns a set with every category active.
func AllCategories() CategorySet {
	s := make(CategorySet, len(categoryOrder))
	for _, c := range categoryOrder {
		s[c] = struct{}{}
	}
	return s
}

// NewCategorySet builds a set from names, skipping unknown ones. The skipped
// names are returned so loaders can report them.
func NewCategorySet(names []string) (CategorySet, []string) {
	s := make(CategorySet, len(names))
	var unknown []string
	for _, n := range names {
		c := Category(n)
		if !c.Known() {
			unknown = append(unknown, n)
			continue
		}
		s[c] = struct{}{}
	}
	return s, unknown
}

// Has reports membership.
func (s CategorySet) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// Toggle flips membership of c. It returns false and leaves the set unchanged
// when c is not a recognised category.
func (s CategorySet) Toggle(c Category) bool {
	if !c.Known() {
		return false
	}
	if s.Has(c) {
		delete(s, c)
	} else {
		s[c] = struct{}{}
	}
	return true
}

// Ordered returns the active categories in evaluation order.
func (s CategorySet) Ordered() []Category {
	out := make([]Category, 0, len(s))
	for _, c := range categoryOrder {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns an independent copy.
func (s CategorySet) Clone() CategorySet {
	out := make(CategorySet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}
