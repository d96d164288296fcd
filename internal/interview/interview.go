// Package interview implements the real-time adaptive interview engine: the
// session lifecycle, the question planning and follow-up branching policy,
// and the completion pipeline that turns a finished exchange into a score and
// hiring recommendation.
package interview

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

var (
	// ErrInterviewNotFound is returned when an interview id is unknown.
	ErrInterviewNotFound = errors.New("interview not found")
	// ErrSessionNotFound is returned when a session id is unknown or the
	// session is no longer active.
	ErrSessionNotFound = errors.New("session not found")
)

// Store is the durable interview record the engine reads and writes. The
// record is the single source of truth for answers; the ephemeral session
// only carries a cursor over it. GetInterview returns ErrInterviewNotFound
// for unknown ids.
type Store interface {
	CreateInterview(ctx context.Context, iv *model.Interview) error
	GetInterview(ctx context.Context, id uuid.UUID) (*model.Interview, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.InterviewStatus) error
	AppendTurn(ctx context.Context, id uuid.UUID, turn model.ConversationTurn) error
	AppendAnswer(ctx context.Context, id uuid.UUID, answer model.Answer) error
	UpdateAnswer(ctx context.Context, id uuid.UUID, answer model.Answer) error
	CompleteInterview(ctx context.Context, iv *model.Interview) error
}

// Provider is the generative collaborator contract. Every method may fail;
// the engine substitutes documented fallbacks and never surfaces provider
// failures to the candidate-facing flow.
type Provider interface {
	GenerateQuestions(ctx context.Context, position string, interviewType model.InterviewType, profile string, n int) ([]model.Question, error)
	AdaptiveQuestion(ctx context.Context, position string, difficulty model.Difficulty, turns []model.ConversationTurn) (string, error)
	Evaluate(ctx context.Context, question, expectedHint, answer string) (*model.Evaluation, error)
	FollowUp(ctx context.Context, question, answer string) (string, error)
	OverallFeedback(ctx context.Context, transcript string) (string, error)
}

// SubmissionResult is what one answer submission produces: the evaluation,
// at most one of FollowUp or NextQuestion, the session's position and a
// progress snapshot taken after the answer was recorded. InterviewID lets
// transports route room broadcasts without another session lookup.
type SubmissionResult struct {
	InterviewID    uuid.UUID         `json:"interview_id"`
	Evaluation     *model.Evaluation `json:"evaluation"`
	FollowUp       string            `json:"follow_up_question,omitempty"`
	NextQuestion   *model.Question   `json:"next_question,omitempty"`
	IsComplete     bool              `json:"is_complete"`
	QuestionIndex  int               `json:"current_question_index"`
	TotalQuestions int               `json:"total_questions"`
	Progress       *ProgressFeedback `json:"progress,omitempty"`
}

// ProgressFeedback is the mid-interview encouragement snapshot.
type ProgressFeedback struct {
	Progress          float64 `json:"progress"`
	AverageScore      float64 `json:"average_score"`
	QuestionsAnswered int     `json:"questions_answered"`
	TotalQuestions    int     `json:"total_questions"`
	Feedback          string  `json:"feedback"`
}
