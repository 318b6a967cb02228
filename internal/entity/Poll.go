package entity

import "time"

// Option is a single answer of a poll. ID is stable for the poll's lifetime
// and independent of the option's position.
type Option struct {
	ID    string `json:"optionId" bson:"option_id"`
	Text  string `json:"text" bson:"text"`
	Votes int64  `json:"votes" bson:"votes"`
}

// Poll is a time-bounded question. The active window is [StartDate, EndDate).
type Poll struct {
	ID        string    `json:"id" bson:"_id"`
	Question  string    `json:"question" bson:"question"`
	Options   []Option  `json:"options" bson:"options"`
	StartDate time.Time `json:"startDate" bson:"start_date"`
	EndDate   time.Time `json:"endDate" bson:"end_date"`
	CreatedBy string    `json:"createdBy" bson:"created_by"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// TotalVotes sums the tallies of all options.
func (p Poll) TotalVotes() int64 {
	var total int64
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}

type PollFilter string

const (
	PollFilterAll    PollFilter = ""
	PollFilterActive PollFilter = "active"
	PollFilterClosed PollFilter = "closed"
)

// ParsePollFilter maps the status query value to a filter. Unknown values
// list everything.
func ParsePollFilter(status string) PollFilter {
	switch PollFilter(status) {
	case PollFilterActive:
		return PollFilterActive
	case PollFilterClosed:
		return PollFilterClosed
	default:
		return PollFilterAll
	}
}

// PollPatch carries the fields of an update. Nil fields are left untouched;
// a non-nil Options replaces the whole option set.
type PollPatch struct {
	Question  *string
	Options   []string
	StartDate *time.Time
	EndDate   *time.Time
}
