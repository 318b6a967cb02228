package entity

import "time"

// Vote is a ledger entry. (PollID, UserID) is unique.
type Vote struct {
	PollID   string    `json:"pollId" bson:"poll_id"`
	UserID   string    `json:"userId" bson:"user_id"`
	OptionID string    `json:"optionId" bson:"option_id"`
	VotedAt  time.Time `json:"votedAt" bson:"voted_at"`
}
