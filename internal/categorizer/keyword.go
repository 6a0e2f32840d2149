package categorizer

import (
	"context"

	"edocta/edocta-csv/internal/logging"
)

// KeywordStrategy implements categorization using keyword pattern matching
// from category configuration loaded from YAML files.
type KeywordStrategy struct {
	logger logging.Logger
}

// NewKeywordStrategy creates a new KeywordStrategy instance.
func NewKeywordStrategy(logger logging.Logger) *KeywordStrategy {
	return &KeywordStrategy{logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Categorize matches description against the snapshot's keywords.
func (s *KeywordStrategy) Categorize(_ context.Context, description string, snap *Snapshot) (Match, bool, error) {
	m, ok := snap.Lookup(description)
	if !ok {
		return Match{}, false, nil
	}
	m.Strategy = s.Name()
	s.logger.Debug("Description categorized using keyword matching",
		logging.F(logging.FieldDescription, description),
		logging.F(logging.FieldKeyword, m.Keyword),
		logging.F(logging.FieldCategory, m.Category))
	return m, true, nil
}
