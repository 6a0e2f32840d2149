// Package categorizer assigns categories to statement descriptions.
//
// Keywords are matched case-insensitively as substrings, longest keyword first.
// An optional AI strategy runs only when no keyword matches. The mapping lives in
// an immutable Snapshot that Reload replaces atomically, so concurrent page
// workers never observe a half-loaded mapping.
package categorizer

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/models"
)

// Categorizer classifies descriptions against the current mapping snapshot.
type Categorizer struct {
	snapshot   atomic.Pointer[Snapshot]
	store      CategoryStoreInterface
	strategies []CategorizationStrategy
	logger     logging.Logger
}

// Option customises a Categorizer.
type Option func(*Categorizer)

// WithAIClient appends an AI fallback after keyword matching.
func WithAIClient(client AIClient) Option {
	return func(c *Categorizer) {
		if client != nil {
			c.strategies = append(c.strategies, NewAIStrategy(client, c.logger))
		}
	}
}

// NewCategorizer loads the mapping from store. A load failure is returned, not logged.
func NewCategorizer(store CategoryStoreInterface, logger logging.Logger, opts ...Option) (*Categorizer, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	c := &Categorizer{store: store, logger: logger}
	c.strategies = []CategorizationStrategy{NewKeywordStrategy(logger)}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromConfigs builds a Categorizer over a fixed mapping.
func NewFromConfigs(configs []models.CategoryConfig, logger logging.Logger, opts ...Option) *Categorizer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	c := &Categorizer{logger: logger}
	c.strategies = []CategorizationStrategy{NewKeywordStrategy(logger)}
	for _, opt := range opts {
		opt(c)
	}
	c.snapshot.Store(NewSnapshot(configs))
	return c
}

// Reload reads the mapping again and swaps it in. On failure the previous
// snapshot stays in place.
func (c *Categorizer) Reload() error {
	if c.store == nil {
		return fmt.Errorf("categorizer has no category store")
	}
	configs, err := c.store.LoadCategories()
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	snap := NewSnapshot(configs)
	c.snapshot.Store(snap)
	c.logger.Info("Category mapping loaded",
		logging.F(logging.FieldCount, len(snap.Categories())),
		logging.F("keywords", snap.KeywordCount()))
	return nil
}

// Snapshot returns the mapping currently in use.
func (c *Categorizer) Snapshot() *Snapshot {
	return c.snapshot.Load()
}

// Categorize runs the strategies in order and returns the first hit, or
// "Other" when none matches. Empty descriptions are always "Other".
func (c *Categorizer) Categorize(ctx context.Context, description string) Match {
	if strings.TrimSpace(description) == "" {
		return Match{Category: models.CategoryOther}
	}
	snap := c.snapshot.Load()
	for _, s := range c.strategies {
		m, ok, err := s.Categorize(ctx, description, snap)
		if err != nil {
			c.logger.WithError(err).Warn("Categorization strategy failed",
				logging.F("strategy", s.Name()))
			continue
		}
		if ok {
			return m
		}
	}
	return Match{Category: models.CategoryOther}
}

// Classify is Categorize for callers with no context to pass.
func (c *Categorizer) Classify(description string) string {
	return c.Categorize(context.Background(), description).Category
}
