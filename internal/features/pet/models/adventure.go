package models

// AdventureOutcome is one entry of the adventure catalog: a flavor text
// plus the hunger and happiness deltas it applies on completion.
type AdventureOutcome struct {
	Text      string `json:"text" toml:"text"`
	Feed      int    `json:"feed" toml:"feed"`
	Happiness int    `json:"happiness" toml:"happiness"`
}

// FeedOutcome is one entry of the feeding table. Weight is the relative
// draw probability in percent.
type FeedOutcome struct {
	Name      string `json:"name" toml:"name"`
	Weight    int    `json:"weight" toml:"weight"`
	Feed      int    `json:"feed" toml:"feed"`
	Happiness int    `json:"happiness" toml:"happiness"`
}
