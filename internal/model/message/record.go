package message

import "time"

// Direction marks which way a record travelled relative to the provider.
type Direction string

const (
	// DirectionOut is a message sent from the UI towards the provider.
	DirectionOut Direction = "out"
	// DirectionIn is a message delivered by the provider (or the demo bot).
	DirectionIn Direction = "in"
)

// Record is a single entry in the chronological message log.
type Record struct {
	ID        int       `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to,omitempty"`
	Text      string    `json:"text"`
	Direction Direction `json:"direction"`
	Time      time.Time `json:"time"`
}
