package categorizer

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"edocta/edocta-csv/internal/models"
)

type entry struct {
	keyword  string // as declared
	folded   string
	category string
	typeHint string
}

// Snapshot is an immutable, match-ready view of a category mapping.
type Snapshot struct {
	entries    []entry
	categories []string
	known      map[string]string // folded name -> declared name
}

// NewSnapshot orders keywords longest first. Keywords of equal length keep their
// declaration order, so the result does not depend on map iteration.
func NewSnapshot(configs []models.CategoryConfig) *Snapshot {
	fold := cases.Fold()
	s := &Snapshot{known: make(map[string]string)}

	for _, c := range configs {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		foldedName := fold.String(name)
		if _, seen := s.known[foldedName]; !seen {
			s.known[foldedName] = name
			s.categories = append(s.categories, name)
		}
		for _, kw := range c.Keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			s.entries = append(s.entries, entry{
				keyword:  kw,
				folded:   fold.String(kw),
				category: name,
				typeHint: c.Type,
			})
		}
	}

	sort.SliceStable(s.entries, func(i, j int) bool {
		return len([]rune(s.entries[i].folded)) > len([]rune(s.entries[j].folded))
	})
	return s
}

// Lookup returns the first entry, in longest-keyword order, contained in description.
func (s *Snapshot) Lookup(description string) (Match, bool) {
	if s == nil || strings.TrimSpace(description) == "" {
		return Match{}, false
	}
	folded := cases.Fold().String(description)
	for _, e := range s.entries {
		if strings.Contains(folded, e.folded) {
			return Match{Category: e.category, TypeHint: e.typeHint, Keyword: e.keyword}, true
		}
	}
	return Match{}, false
}

// Categories lists category names in declaration order.
func (s *Snapshot) Categories() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.categories...)
}

// Canonical returns the declared spelling of a category name, matched case-insensitively.
func (s *Snapshot) Canonical(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	declared, ok := s.known[cases.Fold().String(strings.TrimSpace(name))]
	return declared, ok
}

// KeywordCount returns the number of keywords in the snapshot.
func (s *Snapshot) KeywordCount() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}
