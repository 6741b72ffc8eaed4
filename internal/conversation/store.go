// Package conversation keeps the rolling per-user context sent to the LLM.
package conversation

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// DefaultMaxTurns keeps five user/assistant pairs.
	DefaultMaxTurns = 10
)

// Turn is a single message in a user's conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store holds at most a fixed number of recent turns per user.
type Store interface {
	// Append adds turns to the end of the user's history and drops the oldest
	// ones beyond the store's limit.
	Append(ctx context.Context, userID int64, turns ...Turn) error

	// History returns the user's turns, oldest first. Unknown users have an
	// empty history.
	History(ctx context.Context, userID int64) ([]Turn, error)

	// Clear forgets the user's history.
	Clear(ctx context.Context, userID int64) error
}

// trim keeps the most recent max turns.
func trim(turns []Turn, max int) []Turn {
	if len(turns) > max {
		return turns[len(turns)-max:]
	}
	return turns
}
