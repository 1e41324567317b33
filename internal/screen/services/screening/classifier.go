package screening

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/haukened/rr-screen/internal/screen/domain"
)

// patternSource holds the built-in spam patterns per category. Patterns run
// against lower-cased content with search (not full-match) semantics.
var patternSource = map[domain.Category][]string{
	domain.CategoryFinancialScams: {
		`\b(win|won|winner|lottery|prize|cash|money|payment)\b`,
		`\$\d+[km]?\b`,
		`\b(investment|invest|bitcoin|crypto|forex|stocks)\b`,
		`\b(inheritance|bank|account|transfer|wire)\b`,
		`\b(loan|credit|debt|mortgage|refinance)\b`,
	},
	domain.CategoryUrgentAction: {
		`\b(urgent|immediate|action required|limited time|expires|expiring)\b`,
		`\b(account suspended|account blocked|security alert|unusual activity)\b`,
		`\b(verify|validate|confirm|update|upgrade)\b`,
		`!!+|⚠️|🚨`,
	},
	domain.CategoryPromotional: {
		`\b(free|discount|save|%\s*off|deal|offer|special)\b`,
		`\b(buy|purchase|order|shop|store)\b`,
		`\b(limited time|exclusive|vip|premium)\b`,
		`\b(subscription|trial|membership)\b`,
	},
	domain.CategorySuspiciousLinks: {
		`https?://(?:bit\.ly|tinyurl\.com|goo\.gl)/\S+`,
		`https?://[^\s/$.?#].[^\s]*`,
		`\b(click|tap|visit|check|see)\s+(?:here|now|this)\b`,
	},
	domain.CategoryAdultContent: {
		`\b(adult|dating|single|meet|chat|hot|sexy)\b`,
		`\b(private|intimate|personal|video|photo)\b`,
	},
	domain.CategoryCommonSpam: {
		`\b(congratulations|congrats|selected|chosen|lucky)\b`,
		`\b(warranty|insurance|coverage|policy|claim)\b`,
		`\b(gift card|reward|bonus|points)\b`,
		`\b(unsubscribe|stop|opt[ -]out)\b`,
	},
}

type categoryPatterns struct {
	category domain.Category
	patterns []*regexp.Regexp
}

// builtinTable is compiled once, in category declaration order.
var builtinTable = compileTable(patternSource)

func compileTable(src map[domain.Category][]string) []categoryPatterns {
	table := make([]categoryPatterns, 0, len(src))
	for _, c := range domain.Categories() {
		cp := categoryPatterns{category: c}
		for _, p := range src[c] {
			cp.patterns = append(cp.patterns, regexp.MustCompile(p))
		}
		table = append(table, cp)
	}
	return table
}

// Classifier flags SMS content as spam using keyword filters and the
// built-in category patterns. It holds no mutable state.
type Classifier struct {
	table []categoryPatterns
}

// NewClassifier returns a Classifier over the built-in pattern table.
func NewClassifier() *Classifier {
	return &Classifier{table: builtinTable}
}

// wordShape maps non-ASCII runes onto ASCII stand-ins with the same word
// class, since RE2's \b, \d and \s only know ASCII. Decimal digits become
// '0', other letters and numbers '_' (a word character no pattern spells),
// and Unicode spaces ' '. Everything else, emoji included, is kept.
func wordShape(r rune) rune {
	if r < utf8.RuneSelf {
		return r
	}
	switch {
	case unicode.IsDigit(r):
		return '0'
	case unicode.IsLetter(r), unicode.IsNumber(r):
		return '_'
	case unicode.IsSpace(r):
		return ' '
	}
	return r
}

// Classify lower-cases content, then checks keyword filters in order and the
// active categories in declaration order. The first hit decides: a keyword
// yields ReasonCustomKeyword regardless of which categories are active, a
// category yields its spam reason.
func (c *Classifier) Classify(content string, keywords []domain.KeywordFilter, active domain.CategorySet) (domain.Reason, bool) {
	lowered := strings.ToLower(content)
	for _, k := range keywords {
		if k.Matches(lowered) {
			return domain.ReasonCustomKeyword, true
		}
	}
	shaped := strings.Map(wordShape, lowered)
	for _, cp := range c.table {
		if !active.Has(cp.category) {
			continue
		}
		for _, re := range cp.patterns {
			if re.MatchString(shaped) {
				return domain.SpamReason(cp.category), true
			}
		}
	}
	return domain.ReasonNone, false
}
