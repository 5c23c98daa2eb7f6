package model

import (
	"strconv"
	"time"
)

// Quiz is a named, timed collection of ordered questions as stored in the
// realtime database. Field names follow the store's record schema.
type Quiz struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle"`
	Time         string     `json:"time" validate:"required,number"`
	QuestionList []Question `json:"questionList" validate:"dive"`
}

// MaxTimeMinutes bounds a quiz's time limit. Longer limits are treated as
// malformed records.
const MaxTimeMinutes = 7 * 24 * 60

// Minutes parses the string-encoded time limit. ok is false when the value
// is not a whole number of minutes in [0, MaxTimeMinutes].
func (q Quiz) Minutes() (minutes int, ok bool) {
	minutes, err := strconv.Atoi(q.Time)
	if err != nil || minutes < 0 || minutes > MaxTimeMinutes {
		return 0, false
	}
	return minutes, true
}

// TimeLimit converts the string-encoded minutes into a duration.
// Quizzes that passed catalog validation always parse.
func (q Quiz) TimeLimit() time.Duration {
	minutes, ok := q.Minutes()
	if !ok {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

// ListItem is one row of the quiz list.
type ListItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Subtitle      string `json:"subtitle"`
	TimeLabel     string `json:"time_label"`
	QuestionCount int    `json:"question_count"`
}

// NewListItem binds a quiz to its list row.
func NewListItem(q Quiz) ListItem {
	return ListItem{
		ID:            q.ID,
		Title:         q.Title,
		Subtitle:      q.Subtitle,
		TimeLabel:     q.Time + " min",
		QuestionCount: len(q.QuestionList),
	}
}
