package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/surajmeruva0786/hiregenieai-sub001/internal/interview"
	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

// ErrNotFound is the engine's not-found sentinel; callers can match either name.
var ErrNotFound = interview.ErrInterviewNotFound

func (r *Repository) CreateInterview(ctx context.Context, iv *model.Interview) error {
	return r.execTx(ctx, func(tx pgx.Tx) error {
		const q = `
INSERT INTO interviews (
	interview_id, candidate_name, position, interview_type, status, created_at
) VALUES ($1, $2, $3, $4, $5, $6)
`
		if _, err := tx.Exec(ctx, q,
			iv.ID, iv.CandidateName, iv.Position, iv.InterviewType, iv.Status, iv.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert interview: %w", err)
		}

		if len(iv.Questions) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		const qq = `
INSERT INTO questions (q_id, interview_id, seq, question, category, difficulty, expected_answer, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
		for i, question := range iv.Questions {
			batch.Queue(qq, question.ID, iv.ID, i, question.Text, question.Category,
				question.Difficulty, question.ExpectedAnswer, question.CreatedAt)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := 0; i < len(iv.Questions); i++ {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("batch insert question %d: %w", i, err)
			}
		}
		return nil
	})
}

func (r *Repository) GetInterview(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	const q = `
SELECT interview_id, candidate_name, position, interview_type, status,
	total_score, max_score, percentage, overall_feedback, recommendation,
	created_at, completed_at
FROM interviews WHERE interview_id = $1
`
	var iv model.Interview
	var feedback, recommendation *string
	row := r.db.QueryRow(ctx, q, id)
	err := row.Scan(
		&iv.ID, &iv.CandidateName, &iv.Position, &iv.InterviewType, &iv.Status,
		&iv.TotalScore, &iv.MaxScore, &iv.Percentage, &feedback, &recommendation,
		&iv.CreatedAt, &iv.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query interview: %w", err)
	}
	if feedback != nil {
		iv.OverallFeedback = *feedback
	}
	if recommendation != nil {
		iv.Recommendation = model.Recommendation(*recommendation)
	}

	if iv.Questions, err = r.listQuestions(ctx, id); err != nil {
		return nil, err
	}
	if iv.Answers, err = r.listAnswers(ctx, id); err != nil {
		return nil, err
	}
	if iv.Turns, err = r.listTurns(ctx, id); err != nil {
		return nil, err
	}
	return &iv, nil
}

func (r *Repository) listQuestions(ctx context.Context, interviewID uuid.UUID) ([]model.Question, error) {
	const q = `
SELECT q_id, question, category, difficulty, expected_answer, created_at
FROM questions WHERE interview_id = $1 ORDER BY seq ASC
`
	rows, err := r.db.Query(ctx, q, interviewID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []model.Question
	for rows.Next() {
		var qs model.Question
		if err := rows.Scan(&qs.ID, &qs.Text, &qs.Category, &qs.Difficulty, &qs.ExpectedAnswer, &qs.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, qs)
	}
	return out, rows.Err()
}

func (r *Repository) listAnswers(ctx context.Context, interviewID uuid.UUID) ([]model.Answer, error) {
	const q = `
SELECT question_id, answer, duration_seconds, evaluation, submitted_at
FROM answers WHERE interview_id = $1 ORDER BY seq ASC
`
	rows, err := r.db.Query(ctx, q, interviewID)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []model.Answer
	for rows.Next() {
		var a model.Answer
		var evalJSON []byte
		if err := rows.Scan(&a.QuestionID, &a.Text, &a.DurationSeconds, &evalJSON, &a.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		if len(evalJSON) > 0 {
			var ev model.Evaluation
			if err := json.Unmarshal(evalJSON, &ev); err != nil {
				return nil, fmt.Errorf("decode evaluation: %w", err)
			}
			a.Evaluation = &ev
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) listTurns(ctx context.Context, interviewID uuid.UUID) ([]model.ConversationTurn, error) {
	const q = `
SELECT role, content, ts FROM conversation_turns
WHERE interview_id = $1 ORDER BY seq ASC
`
	rows, err := r.db.Query(ctx, q, interviewID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var out []model.ConversationTurn
	for rows.Next() {
		var t model.ConversationTurn
		if err := rows.Scan(&t.Role, &t.Content, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InterviewStatus) error {
	const q = `UPDATE interviews SET status = $2 WHERE interview_id = $1`
	tag, err := r.db.Exec(ctx, q, id, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) AppendTurn(ctx context.Context, id uuid.UUID, turn model.ConversationTurn) error {
	const q = `
INSERT INTO conversation_turns (interview_id, seq, role, content, ts)
VALUES ($1, (SELECT COALESCE(MAX(seq)+1, 0) FROM conversation_turns WHERE interview_id = $1), $2, $3, $4)
`
	if _, err := r.db.Exec(ctx, q, id, turn.Role, turn.Content, turn.Timestamp); err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

func (r *Repository) AppendAnswer(ctx context.Context, id uuid.UUID, answer model.Answer) error {
	evalJSON, err := json.Marshal(answer.Evaluation)
	if err != nil {
		return fmt.Errorf("encode evaluation: %w", err)
	}

	const q = `
INSERT INTO answers (interview_id, seq, question_id, answer, duration_seconds, evaluation, submitted_at)
VALUES ($1, (SELECT COALESCE(MAX(seq)+1, 0) FROM answers WHERE interview_id = $1), $2, $3, $4, $5, $6)
`
	if _, err := r.db.Exec(ctx, q, id, answer.QuestionID, answer.Text,
		answer.DurationSeconds, evalJSON, answer.SubmittedAt); err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

// UpdateAnswer rewrites the answer bound to a question, used when a follow-up
// response folds into the same question slot.
func (r *Repository) UpdateAnswer(ctx context.Context, id uuid.UUID, answer model.Answer) error {
	evalJSON, err := json.Marshal(answer.Evaluation)
	if err != nil {
		return fmt.Errorf("encode evaluation: %w", err)
	}

	const q = `
UPDATE answers SET answer = $3, duration_seconds = $4, evaluation = $5, submitted_at = $6
WHERE interview_id = $1 AND question_id = $2
`
	tag, err := r.db.Exec(ctx, q, id, answer.QuestionID, answer.Text,
		answer.DurationSeconds, evalJSON, answer.SubmittedAt)
	if err != nil {
		return fmt.Errorf("update answer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteInterview persists the completion result atomically: aggregate
// fields, status and completion timestamp in one statement, plus any
// evaluations backfilled by the aggregator, all inside a single transaction.
func (r *Repository) CompleteInterview(ctx context.Context, iv *model.Interview) error {
	return r.execTx(ctx, func(tx pgx.Tx) error {
		for _, a := range iv.Answers {
			if a.Evaluation == nil {
				continue
			}
			evalJSON, err := json.Marshal(a.Evaluation)
			if err != nil {
				return fmt.Errorf("encode evaluation: %w", err)
			}
			const qa = `UPDATE answers SET evaluation = $3 WHERE interview_id = $1 AND question_id = $2`
			if _, err := tx.Exec(ctx, qa, iv.ID, a.QuestionID, evalJSON); err != nil {
				return fmt.Errorf("update answer evaluation: %w", err)
			}
		}

		const q = `
UPDATE interviews SET
	total_score = $2, max_score = $3, percentage = $4,
	overall_feedback = $5, recommendation = $6, status = $7, completed_at = $8
WHERE interview_id = $1
`
		tag, err := tx.Exec(ctx, q, iv.ID,
			iv.TotalScore, iv.MaxScore, iv.Percentage,
			iv.OverallFeedback, iv.Recommendation, iv.Status, iv.CompletedAt)
		if err != nil {
			return fmt.Errorf("complete interview: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
