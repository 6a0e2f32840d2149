package categorizer

import "context"

// Match is the outcome of classifying one description.
type Match struct {
	Category string
	// TypeHint is the optional type declared next to the category in the mapping.
	// The emitted category type still follows the sign of the amount.
	TypeHint string
	// Keyword is the mapping keyword that matched, empty for non-keyword strategies.
	Keyword  string
	Strategy string
}

// CategorizationStrategy defines a method for categorizing transactions.
// Each strategy implements a specific approach to categorization (keywords, AI, etc.).
type CategorizationStrategy interface {
	// Categorize returns the match and whether the strategy found one. Errors are
	// reserved for failures the caller should hear about; a miss is not an error.
	Categorize(ctx context.Context, description string, snap *Snapshot) (Match, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
