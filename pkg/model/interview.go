package model

import (
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	StatusScheduled  InterviewStatus = "scheduled"
	StatusInProgress InterviewStatus = "in_progress"
	StatusCompleted  InterviewStatus = "completed"
	StatusCancelled  InterviewStatus = "cancelled"
)

type InterviewType string

const (
	TypeTechnical  InterviewType = "technical"
	TypeBehavioral InterviewType = "behavioral"
	TypeMixed      InterviewType = "mixed"
)

type Recommendation string

const (
	RecommendStrongHire Recommendation = "strong_hire"
	RecommendHire       Recommendation = "hire"
	RecommendMaybe      Recommendation = "maybe"
	RecommendNoHire     Recommendation = "no_hire"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

// Interview is the durable record of one candidate/job evaluation encounter.
// Questions, answers and turns are ordered; answers never outnumber questions.
type Interview struct {
	ID              uuid.UUID          `json:"id" db:"interview_id"`
	CandidateName   string             `json:"candidate_name" db:"candidate_name"`
	Position        string             `json:"position" db:"position"`
	InterviewType   InterviewType      `json:"interview_type" db:"interview_type"`
	Status          InterviewStatus    `json:"status" db:"status"`
	Questions       []Question         `json:"questions"`
	Answers         []Answer           `json:"answers"`
	Turns           []ConversationTurn `json:"conversation_turns"`
	TotalScore      float64            `json:"total_score" db:"total_score"`
	MaxScore        float64            `json:"max_score" db:"max_score"`
	Percentage      float64            `json:"percentage" db:"percentage"`
	OverallFeedback string             `json:"overall_feedback" db:"overall_feedback"`
	Recommendation  Recommendation     `json:"recommendation" db:"recommendation"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
	CompletedAt     *time.Time         `json:"completed_at" db:"completed_at"`
}

type Question struct {
	ID             uuid.UUID  `json:"id" db:"q_id"`
	Text           string     `json:"text" db:"question"`
	Category       string     `json:"category" db:"category"`
	Difficulty     Difficulty `json:"difficulty" db:"difficulty"`
	ExpectedAnswer string     `json:"expected_answer,omitempty" db:"expected_answer"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

type Answer struct {
	QuestionID      uuid.UUID   `json:"question_id" db:"question_id"`
	Text            string      `json:"text" db:"answer"`
	DurationSeconds int         `json:"duration_seconds" db:"duration_seconds"`
	Evaluation      *Evaluation `json:"evaluation,omitempty"`
	SubmittedAt     time.Time   `json:"submitted_at" db:"submitted_at"`
}

type Evaluation struct {
	Score        float64   `json:"score"`
	MaxScore     float64   `json:"max_score"`
	Feedback     string    `json:"feedback"`
	Strengths    []string  `json:"strengths"`
	Improvements []string  `json:"improvements"`
	Evaluator    string    `json:"evaluator"`
	EvaluatedAt  time.Time `json:"evaluated_at"`
}

type ConversationTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// EvaluatedAnswers counts answers that carry an evaluation.
func (iv *Interview) EvaluatedAnswers() int {
	n := 0
	for _, a := range iv.Answers {
		if a.Evaluation != nil {
			n++
		}
	}
	return n
}

// QuestionByID resolves a question inside the same interview.
func (iv *Interview) QuestionByID(id uuid.UUID) *Question {
	for i := range iv.Questions {
		if iv.Questions[i].ID == id {
			return &iv.Questions[i]
		}
	}
	return nil
}

type CreateInterviewReq struct {
	CandidateName string        `json:"candidate_name" binding:"required"`
	Position      string        `json:"position" binding:"required"`
	InterviewType InterviewType `json:"interview_type" binding:"required,oneof=technical behavioral mixed"`
	Profile       string        `json:"profile"`
	NumQuestions  int           `json:"num_questions" binding:"omitempty,min=1,max=20"`
}

type SubmitAnswerReq struct {
	Answer  string `json:"answer" binding:"required"`
	IsVoice bool   `json:"is_voice"`
}

type AdaptiveQuestionReq struct {
	PreviousScore float64 `json:"previous_score" binding:"min=0,max=10"`
}
