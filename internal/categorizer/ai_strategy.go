package categorizer

import (
	"context"
	"strings"

	"edocta/edocta-csv/internal/logging"
)

// AIStrategy asks an AIClient to pick a category when keywords miss.
// Failures and answers outside the taxonomy count as misses.
type AIStrategy struct {
	aiClient AIClient
	logger   logging.Logger
}

// NewAIStrategy creates a new AIStrategy instance.
func NewAIStrategy(aiClient AIClient, logger logging.Logger) *AIStrategy {
	return &AIStrategy{aiClient: aiClient, logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *AIStrategy) Name() string {
	return "AI"
}

// Categorize attempts to categorize a description using the AI service.
func (s *AIStrategy) Categorize(ctx context.Context, description string, snap *Snapshot) (Match, bool, error) {
	if s.aiClient == nil || strings.TrimSpace(description) == "" {
		return Match{}, false, nil
	}

	answer, err := s.aiClient.Categorize(ctx, description, snap.Categories())
	if err != nil {
		s.logger.WithError(err).Warn("AI categorization failed",
			logging.F(logging.FieldDescription, description))
		return Match{}, false, nil
	}

	name, ok := snap.Canonical(answer)
	if !ok {
		s.logger.Debug("AI answer outside known categories",
			logging.F(logging.FieldDescription, description),
			logging.F(logging.FieldCategory, answer))
		return Match{}, false, nil
	}

	s.logger.Debug("Description categorized using AI",
		logging.F(logging.FieldDescription, description),
		logging.F(logging.FieldCategory, name))
	return Match{Category: name, Strategy: s.Name()}, true, nil
}
