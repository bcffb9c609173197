package domain

// EventType is the canonical play-by-play event vocabulary after enum
// mapping; vendor integer codes never survive past the preprocessor.
type EventType string

const (
	EventShot           EventType = "shot"
	EventFreeThrow      EventType = "free_throw"
	EventRebound        EventType = "rebound"
	EventFoul           EventType = "foul"
	EventTurnover       EventType = "turnover"
	EventSteal          EventType = "steal"
	EventBlock          EventType = "block"
	EventSubstitution   EventType = "substitution"
	EventTimeout        EventType = "timeout"
	EventPeriodBegin    EventType = "period_begin"
	EventPeriodEnd      EventType = "period_end"
	EventJumpBall       EventType = "jump_ball"
	EventViolation      EventType = "violation"
	EventTechnical      EventType = "technical"
	EventFlagrant       EventType = "flagrant"
	EventInstantReplay  EventType = "instant_replay"
	EventEjection       EventType = "ejection"
)

// ShotZone is the coarse court-location bucket used by shot charts and
// the Q1-window efficiency derivations.
type ShotZone string

const (
	ZoneRestrictedArea ShotZone = "restricted_area"
	ZonePaint          ShotZone = "paint"
	ZoneMidRange       ShotZone = "mid_range"
	ZoneCornerThree    ShotZone = "corner_three"
	ZoneAboveBreakThree ShotZone = "above_break_three"
)

// Clock captures a play-by-play event's time within its period in three
// redundant forms; all three are kept because downstream consumers
// disagree on which is convenient.
type Clock struct {
	Display        string // e.g. "8:42" or "8:42.3"
	RemainingMS    int
	SecondsElapsed float64
}

// ShotDetail is populated only for shot/free-throw events.
type ShotDetail struct {
	Made     bool
	Value    int // 2 or 3; 1 for free throws
	ShotType string
	Zone     ShotZone
	Distance float64
	X        float64
	Y        float64
}

// Situation carries possession/tempo context computed alongside the raw
// event, consumed heavily by the derived transformers.
type Situation struct {
	Transition       bool
	EarlyClock       bool
	ShotClockSeconds float64
	PossessionTeam   string
}

// Participant is one of up to three players named on an event (shooter,
// assister, blocker, and so on — the role is implicit in event type and
// slot position, matching how every vendor's payload is shaped).
type Participant struct {
	Slug string
	ID   string
}

// PbpEvent is one row of canonical play-by-play. (GameID, Period,
// EventIdx) is the natural key.
type PbpEvent struct {
	GameID       string
	Period       int
	EventIdx     int
	Clock        Clock
	HomeScore    int
	AwayScore    int
	Type         EventType
	Subtype      string
	Participants [3]Participant
	TeamTricode  string
	Shot         *ShotDetail
	Situation    Situation
	Description  string
}
