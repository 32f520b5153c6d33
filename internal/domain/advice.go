package domain

import (
	"time"
)

// AdviceRecord is one stored advice snippet with feedback counters.
// Uniqueness is on the full composite key (champion, lane, enemy, intent,
// game_phase, status, reply_text); concurrent feedback writers upsert
// additively on the counters.
type AdviceRecord struct {
	Champion      string    `json:"champion"`
	Lane          string    `json:"lane"`
	Enemy         string    `json:"enemy"`
	Intent        string    `json:"intent"`
	GamePhase     string    `json:"game_phase"`
	Status        string    `json:"status"`
	ReplyText     string    `json:"reply_text"`
	PositiveCount int       `json:"positive_count"`
	NegativeCount int       `json:"negative_count"`
	Score         int       `json:"score"`
	LastSeen      time.Time `json:"last_seen"`
}

// Feedback ratings.
const (
	RatingGood = "good"
	RatingBad  = "bad"
)

// Feedback is the end-of-session quality signal from the user.
type Feedback struct {
	Rating  string `json:"rating"` // good | bad
	Comment string `json:"comment,omitempty"`
}

// Valid reports whether the rating is one of the accepted values.
func (f Feedback) Valid() bool {
	return f.Rating == RatingGood || f.Rating == RatingBad
}

// Correction is a user-sourced factual amendment to game knowledge.
// Repeated confirmations of the same normalized correct_info bump
// Confidence instead of inserting a new row.
type Correction struct {
	Champion      string    `json:"champion"`
	Ability       string    `json:"ability,omitempty"`
	Topic         string    `json:"topic"`
	WrongInfo     string    `json:"wrong_info,omitempty"`
	CorrectInfo   string    `json:"correct_info"`
	Confidence    int       `json:"confidence"`
	SourceSession string    `json:"source_session,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}
