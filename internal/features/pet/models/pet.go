package models

import (
	"time"
)

// SchemaVersion is the current shape of the pet document. Older documents
// are backfilled by Normalize on read.
const SchemaVersion = 2

// Boost is the single optional modifier a pet can carry.
type Boost string

const (
	BoostNone      Boost = ""
	BoostAdventure Boost = "adventure_boost" // shortens adventure duration
	BoostHappy     Boost = "happy_boost"     // amplifies positive happiness gains
	BoostFeed      Boost = "feed_boost"      // slows hunger decay until expiry
)

// Valid reports whether b names a known boost type.
func (b Boost) Valid() bool {
	switch b {
	case BoostAdventure, BoostHappy, BoostFeed:
		return true
	}
	return false
}

// NoWarning is the lastFeedWarning value meaning "no warning issued".
const NoWarning = 100

// State holds transient operational fields of a pet. They are persisted
// alongside the pet but must not be confused with its core attributes.
type State struct {
	LastChatID         int64      `json:"last_chat_id,omitempty"`
	LastFeedDecayTime  *time.Time `json:"last_feed_decay_time,omitempty"`
	LastFeedTime       *time.Time `json:"last_feed_time,omitempty"`
	LastFeedWarning    int        `json:"last_feed_warning"`
	LastGameTime       *time.Time `json:"last_game_time,omitempty"`
	AdventureStartTime *time.Time `json:"adventure_start_time,omitempty"`
	FeedBoostUntil     *time.Time `json:"feed_boost_until,omitempty"`
}

// Pet is the per-user pet document, keyed by the owner's user ID.
type Pet struct {
	Schema          int               `json:"schema"`
	UserID          int64             `json:"user_id"`
	Name            string            `json:"name"`
	CreationDate    time.Time         `json:"creation_date"`
	Feed            int               `json:"feed"`
	Happy           int               `json:"happy"`
	Level           int               `json:"level"`
	Coins           int               `json:"coins"`
	IsAdventuring   bool              `json:"is_adventuring"`
	AdventureResult *AdventureOutcome `json:"adventure_result,omitempty"`
	Boost           Boost             `json:"boost,omitempty"`
	Image           string            `json:"image,omitempty"`
	State           State             `json:"state"`
}

// NewPet returns a pet with the default attribute values.
func NewPet(userID, chatID int64, name string, now time.Time) *Pet {
	return &Pet{
		Schema:       SchemaVersion,
		UserID:       userID,
		Name:         name,
		CreationDate: now,
		Feed:         39,
		Happy:        50,
		Level:        1,
		Coins:        0,
		State: State{
			LastChatID:      chatID,
			LastFeedWarning: NoWarning,
		},
	}
}

// Clamp bounds v to [0, 100].
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// AddFeed applies a clamped hunger delta.
func (p *Pet) AddFeed(delta int) {
	p.Feed = Clamp(p.Feed + delta)
}

// AddHappy applies a clamped happiness delta.
func (p *Pet) AddHappy(delta int) {
	p.Happy = Clamp(p.Happy + delta)
}

// LevelTier is the displayed level: floor(level/100).
func (p *Pet) LevelTier() int {
	return p.Level / 100
}

// LevelProgress is the progress inside the current tier: level % 100.
func (p *Pet) LevelProgress() int {
	return p.Level % 100
}

// Age returns how long the pet has lived as of now.
func (p *Pet) Age(now time.Time) time.Duration {
	return now.Sub(p.CreationDate)
}

// NotifyChatID is where owner notifications go: the last chat the owner
// talked from, falling back to the owner's own identifier.
func (p *Pet) NotifyChatID() int64 {
	if p.State.LastChatID != 0 {
		return p.State.LastChatID
	}
	return p.UserID
}

// StartAdventureAt marks the pet as away with the chosen outcome.
func (p *Pet) StartAdventureAt(outcome AdventureOutcome, now time.Time) {
	o := outcome
	p.IsAdventuring = true
	p.AdventureResult = &o
	p.State.AdventureStartTime = &now
}

// FinishAdventure clears the adventuring triple.
func (p *Pet) FinishAdventure() {
	p.IsAdventuring = false
	p.AdventureResult = nil
	p.State.AdventureStartTime = nil
}

// Normalize backfills documents written under older schema shapes and
// repairs fields that would otherwise violate invariants. It reports
// whether anything was changed.
func (p *Pet) Normalize() bool {
	changed := false

	if p.Schema < SchemaVersion {
		p.Schema = SchemaVersion
		changed = true
	}
	// v1 documents stored no warning marker; zero means "never warned"
	if p.State.LastFeedWarning == 0 && p.Feed > 0 {
		p.State.LastFeedWarning = NoWarning
		changed = true
	}
	if p.Level < 1 {
		p.Level = 1
		changed = true
	}
	if c := Clamp(p.Feed); c != p.Feed {
		p.Feed = c
		changed = true
	}
	if c := Clamp(p.Happy); c != p.Happy {
		p.Happy = c
		changed = true
	}
	if p.Coins < 0 {
		p.Coins = 0
		changed = true
	}
	if p.Boost != BoostNone && !p.Boost.Valid() {
		p.Boost = BoostNone
		changed = true
	}
	// isAdventuring, adventureResult and adventureStartTime travel together;
	// a partial triple cannot be completed, so the flags are cleared
	if p.IsAdventuring && (p.AdventureResult == nil || p.State.AdventureStartTime == nil) {
		p.FinishAdventure()
		changed = true
	}
	if !p.IsAdventuring && (p.AdventureResult != nil || p.State.AdventureStartTime != nil) {
		p.FinishAdventure()
		changed = true
	}

	return changed
}
