// Package domain holds the canonical row types every extractor,
// transformer, and loader in the ingestion core agrees on. These are
// the shapes that cross package boundaries; vendor-specific shapes
// never leave the extract/transform layer that produces them.
package domain

import "time"

// GameStatus is the lifecycle state of a Game.
type GameStatus string

const (
	StatusScheduled   GameStatus = "scheduled"
	StatusLive        GameStatus = "live"
	StatusFinal       GameStatus = "final"
	StatusPostponed   GameStatus = "postponed"
	StatusCancelled   GameStatus = "cancelled"
	StatusSuspended   GameStatus = "suspended"
	StatusRescheduled GameStatus = "rescheduled"
)

// Provenance records where a fact came from and when the core observed it.
type Provenance struct {
	Source    string
	URL       string
	IngestsAt time.Time
}

// Game is the root fact; nearly every other row carries a GameID foreign
// key back to it.
type Game struct {
	GameID        string
	Season        string
	StartTimeUTC  time.Time
	ArenaDate     string // YYYY-MM-DD in ArenaTZ
	ArenaTZ       string // IANA zone name
	HomeTricode   string
	AwayTricode   string
	Status        GameStatus
	Period        int
	Provenance    Provenance
}
