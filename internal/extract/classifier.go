package extract

import (
	"strings"

	"github.com/yamajodo/linkdir/internal/directory"
)

// Classifier guesses a category from a domain. It is a heuristic, not a
// guarantee; implementations return nil when no category applies.
type Classifier func(domain string) *string

// domainKeywords maps second-level-domain substrings to categories. Order
// matters: the first matching keyword wins.
var domainKeywords = []struct {
	keyword  string
	category string
}{
	{"news", "News"},
	{"tech", "Technology"},
	{"edu", "Education"},
	{"shop", "Shopping"},
	{"blog", "Education"},
	{"social", "Social"},
}

// ClassifyDomain is the default Classifier: it matches the second-level
// domain label against the keyword table.
func ClassifyDomain(domain string) *string {
	label := directory.SecondLevelLabel(domain)
	if label == "" {
		return nil
	}
	for _, kc := range domainKeywords {
		if strings.Contains(label, kc.keyword) {
			cat := kc.category
			return &cat
		}
	}
	return nil
}
