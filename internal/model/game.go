package model

import "time"

// Complexity ratings a catalog entry may carry.
const (
	GameComplexityLight  = "LIGHT"
	GameComplexityMedium = "MEDIUM"
	GameComplexityHeavy  = "HEAVY"
)

// Game is a static catalog entry.  The scheduling core only reads
// games; catalog maintenance is an organizer-side concern.
type Game struct {
	ID         uint64    // games.id
	Title      string    // games.title
	Complexity string    // games.complexity (LIGHT | MEDIUM | HEAVY)
	MinPlayers uint32    // games.min_players
	MaxPlayers uint32    // games.max_players
	CreatedAt  time.Time // games.created_at
	UpdatedAt  time.Time // games.updated_at
}
