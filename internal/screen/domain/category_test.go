package domain

import (
	"errors"
	"testing"
)

func TestCategories_Order(t *testing.T) {
	want := []Category{
		CategoryFinancialScams, CategoryUrgentAction, CategoryPromotional,
		CategorySuspiciousLinks, CategoryAdultContent, CategoryCommonSpam,
	}
	got := Categories()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	// returned slice is a copy
	got[0] = "tampered"
	if Categories()[0] != CategoryFinancialScams {
		t.Fatalf("Categories() exposed internal order")
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory("promotional"); err != nil || c != CategoryPromotional {
		t.Fatalf("ParseCategory(promotional) = %q, %v", c, err)
	}
	if _, err := ParseCategory("crypto"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestCategorySet_Toggle(t *testing.T) {
	s := AllCategories()
	if !s.Toggle(CategoryPromotional) {
		t.Fatalf("toggle of known category failed")
	}
	if s.Has(CategoryPromotional) {
		t.Fatalf("promotional should be inactive after toggle")
	}
	if !s.Toggle(CategoryPromotional) || !s.Has(CategoryPromotional) {
		t.Fatalf("second toggle should re-activate")
	}

	before := len(s)
	if s.Toggle("not_a_category") {
		t.Fatalf("unknown category toggle must fail")
	}
	if len(s) != before || s.Has("not_a_category") {
		t.Fatalf("unknown category toggle changed the set")
	}
}

func TestNewCategorySet(t *testing.T) {
	s, unknown := NewCategorySet([]string{"common_spam", "bogus", "financial_scams"})
	if len(unknown) != 1 || unknown[0] != "bogus" {
		t.Fatalf("unknown = %v", unknown)
	}
	ordered := s.Ordered()
	if len(ordered) != 2 || ordered[0] != CategoryFinancialScams || ordered[1] != CategoryCommonSpam {
		t.Fatalf("Ordered() = %v", ordered)
	}
}
