package categorizer

import "context"

// AIClient defines the interface for AI-based categorization services.
type AIClient interface {
	// Categorize returns the category the service picked for description among
	// categories. The answer may fall outside the list; callers validate it.
	Categorize(ctx context.Context, description string, categories []string) (string, error)
}
