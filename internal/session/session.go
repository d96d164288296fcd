// Package session holds the ephemeral per-interview cursor state and the
// stores that keep it. A session is an in-memory view over one active
// real-time run of an interview; the durable interview record remains the
// source of truth for answers and scores.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

// Session is the ephemeral cursor over one active interview run.
// QuestionIndex is 0-based and non-decreasing; reaching the question count is
// the sole completion trigger. Version backs optimistic locking in the store.
type Session struct {
	ID            string                   `json:"id"`
	InterviewID   uuid.UUID                `json:"interview_id"`
	QuestionIndex int                      `json:"question_index"`
	History       []model.ConversationTurn `json:"history"`
	Active        bool                     `json:"active"`
	// PendingFollowUp marks that the last interviewer turn was a follow-up,
	// so the next answer lands on the same question slot.
	PendingFollowUp bool      `json:"pending_follow_up"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int64     `json:"version"`
}

// LastTurns returns up to n most recent conversation turns.
func (s *Session) LastTurns(n int) []model.ConversationTurn {
	if len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}
