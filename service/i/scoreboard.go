package i

import "context"

// ScoreEntry is a single scoreboard row: a run identifier with its score.
type ScoreEntry struct {
	Member string  `json:"member"`
	Score  float64 `json:"score"`
}

// SortedScoreboard stores completed-run scores sorted ascending, lower being
// better. Implementations keep each board bounded and expire boards that stop
// receiving writes.
type SortedScoreboard interface {
	// Record adds a member with the given score to a board.
	Record(ctx context.Context, boardKey string, score float64, member string) error

	// TopScores retrieves up to amount entries with the lowest scores without
	// removing them.
	TopScores(ctx context.Context, boardKey string, amount int64) ([]ScoreEntry, error)

	// Count returns the number of entries on a board.
	Count(ctx context.Context, boardKey string) int64
}
