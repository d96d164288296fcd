package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/surajmeruva0786/hiregenieai-sub001/internal/ai"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/session"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/transcript"
	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

// Manager orchestrates the session lifecycle: start, answer submission,
// follow-up branching, completion and teardown. Mutations for one session are
// serialized by a per-session mutex; different sessions run fully concurrent.
type Manager struct {
	interviews  Store
	sessions    session.Store
	planner     *Planner
	provider    Provider
	aggregator  *Aggregator
	transcripts *transcript.Recorder
	evalTimeout time.Duration
	logger      *zap.Logger

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func NewManager(
	interviews Store,
	sessions session.Store,
	planner *Planner,
	provider Provider,
	aggregator *Aggregator,
	transcripts *transcript.Recorder,
	evalTimeout time.Duration,
	logger *zap.Logger,
) *Manager {
	if evalTimeout <= 0 {
		evalTimeout = 30 * time.Second
	}
	return &Manager{
		interviews:  interviews,
		sessions:    sessions,
		planner:     planner,
		provider:    provider,
		aggregator:  aggregator,
		transcripts: transcripts,
		evalTimeout: evalTimeout,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing mutations for one session id.
func (m *Manager) lockFor(sessionID string) *sync.Mutex {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	mu, ok := m.locks[sessionID]
	if !ok {
		mu = &sync.Mutex{}
		m.locks[sessionID] = mu
	}
	return mu
}

func (m *Manager) releaseLock(sessionID string) {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	delete(m.locks, sessionID)
}

// StartSession creates a session over the interview, marks the interview
// in-progress and emits the first question as an interviewer turn. The first
// question is nil when the interview has no questions.
func (m *Manager) StartSession(ctx context.Context, interviewID uuid.UUID) (*session.Session, *model.Question, error) {
	iv, err := m.interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, nil, err
	}

	sess := &session.Session{
		ID:          uuid.NewString(),
		InterviewID: interviewID,
		Active:      true,
		StartedAt:   time.Now(),
	}

	if err := m.interviews.UpdateStatus(ctx, interviewID, model.StatusInProgress); err != nil {
		return nil, nil, fmt.Errorf("mark interview in progress: %w", err)
	}

	m.transcripts.Initialize(interviewID)

	var first *model.Question
	if len(iv.Questions) > 0 {
		first = &iv.Questions[0]
		m.emitInterviewerTurn(ctx, sess, first.Text)
	}

	if err := m.sessions.Create(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	m.logger.Sugar().Infow("session started",
		"session_id", sess.ID, "interview_id", interviewID, "questions", len(iv.Questions))
	return sess, first, nil
}

// SubmitAnswer processes one candidate answer: records it, evaluates it,
// decides whether to probe with a follow-up or advance, and runs the
// completion pipeline when the question supply is exhausted.
//
// The per-session lock is held for the whole call, including the bounded
// evaluation. EndSession never takes this lock, so a disconnect is not
// blocked behind an in-flight evaluation; instead the session is re-read
// after the evaluation, and if it went inactive in the meantime the stale
// result is discarded rather than acted upon.
func (m *Manager) SubmitAnswer(ctx context.Context, sessionID, answerText string, isVoice bool) (*SubmissionResult, error) {
	mu := m.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := m.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	iv, err := m.interviews.GetInterview(ctx, sess.InterviewID)
	if err != nil {
		return nil, err
	}

	// The durable record is the source of truth: if answers ran ahead of the
	// cursor (crash between persist and advance), derive the cursor from them.
	if !sess.PendingFollowUp && sess.QuestionIndex < len(iv.Answers) {
		sess.QuestionIndex = len(iv.Answers)
	}
	if sess.QuestionIndex > len(iv.Questions) {
		sess.QuestionIndex = len(iv.Questions)
	}

	total := len(iv.Questions)

	// Exhausted supply (including the zero-question interview): complete now.
	if sess.QuestionIndex >= total {
		if err := m.complete(ctx, sess, iv); err != nil {
			return nil, err
		}
		return &SubmissionResult{
			InterviewID:    iv.ID,
			IsComplete:     true,
			QuestionIndex:  sess.QuestionIndex,
			TotalQuestions: total,
			Progress:       progressFor(iv),
		}, nil
	}

	question := iv.Questions[sess.QuestionIndex]

	m.emitCandidateTurn(ctx, sess, answerText)

	// Evaluation is the long suspension; do not hold the lock's session state
	// hostage to a hung provider beyond the bounded timeout.
	ectx, cancel := context.WithTimeout(ctx, m.evalTimeout)
	evaluation, evalErr := m.provider.Evaluate(ectx, question.Text, question.ExpectedAnswer, answerText)
	cancel()
	if evalErr != nil {
		m.logger.Sugar().Warnw("evaluation degraded",
			"session_id", sessionID, "question_id", question.ID, "err", evalErr)
		evaluation = ai.FallbackEvaluation()
	}

	// Discard stale results: the session may have been ended while the
	// evaluation was in flight.
	current, err := m.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	current.QuestionIndex = sess.QuestionIndex
	current.PendingFollowUp = sess.PendingFollowUp
	current.History = sess.History
	sess = current

	answer := model.Answer{
		QuestionID:  question.ID,
		Text:        answerText,
		Evaluation:  evaluation,
		SubmittedAt: time.Now(),
	}
	if sess.PendingFollowUp {
		// A follow-up response folds into the existing answer for this
		// question slot so answers never outnumber questions.
		merged := m.mergeAnswer(iv, answer)
		if err := m.interviews.UpdateAnswer(ctx, iv.ID, merged); err != nil {
			return nil, fmt.Errorf("update answer: %w", err)
		}
	} else {
		if err := m.interviews.AppendAnswer(ctx, iv.ID, answer); err != nil {
			return nil, fmt.Errorf("append answer: %w", err)
		}
		iv.Answers = append(iv.Answers, answer)
	}

	result := &SubmissionResult{
		InterviewID:    iv.ID,
		Evaluation:     evaluation,
		QuestionIndex:  sess.QuestionIndex,
		TotalQuestions: total,
		Progress:       progressFor(iv),
	}

	if m.planner.DecideFollowUp(evaluation.Score) {
		fctx, fcancel := context.WithTimeout(ctx, m.evalTimeout)
		followUp := m.planner.FollowUpQuestion(fctx, question.Text, answerText)
		fcancel()
		if followUp != "" {
			sess.PendingFollowUp = true
			m.emitInterviewerTurn(ctx, sess, followUp)
			result.FollowUp = followUp
			return result, m.saveSession(ctx, sess)
		}
	}

	// Advance past the current question.
	sess.PendingFollowUp = false
	sess.QuestionIndex++
	result.QuestionIndex = sess.QuestionIndex

	if sess.QuestionIndex < total {
		next := iv.Questions[sess.QuestionIndex]
		m.emitInterviewerTurn(ctx, sess, next.Text)
		result.NextQuestion = &next
		return result, m.saveSession(ctx, sess)
	}

	if err := m.complete(ctx, sess, iv); err != nil {
		return nil, err
	}
	result.IsComplete = true
	return result, nil
}

// GenerateAdaptiveQuestion produces a next question whose difficulty follows
// the previous score: easy below 5, hard at 8 and above, medium otherwise.
// Returns an empty string when no adaptive question is available.
func (m *Manager) GenerateAdaptiveQuestion(ctx context.Context, sessionID string, previousScore float64) (string, error) {
	sess, err := m.activeSession(ctx, sessionID)
	if err != nil {
		return "", err
	}

	iv, err := m.interviews.GetInterview(ctx, sess.InterviewID)
	if err != nil {
		return "", err
	}

	var difficulty model.Difficulty
	switch {
	case previousScore < 5:
		difficulty = model.DifficultyEasy
	case previousScore >= 8:
		difficulty = model.DifficultyHard
	default:
		difficulty = model.DifficultyMedium
	}

	qctx, cancel := context.WithTimeout(ctx, m.evalTimeout)
	defer cancel()
	question, err := m.provider.AdaptiveQuestion(qctx, iv.Position, difficulty, sess.LastTurns(4))
	if err != nil {
		m.logger.Sugar().Warnw("adaptive question degraded", "session_id", sessionID, "err", err)
		return "", nil
	}
	return question, nil
}

// GetFeedback reports mid-interview progress and a canned encouragement line
// chosen by the running average score.
func (m *Manager) GetFeedback(ctx context.Context, sessionID string) (*ProgressFeedback, error) {
	sess, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	iv, err := m.interviews.GetInterview(ctx, sess.InterviewID)
	if err != nil {
		return nil, err
	}
	return progressFor(iv), nil
}

// progressFor snapshots the interview's progress from its durable record.
func progressFor(iv *model.Interview) *ProgressFeedback {
	answered := len(iv.Answers)
	total := len(iv.Questions)

	progress := 0.0
	if total > 0 {
		progress = float64(answered) / float64(total) * 100
	}

	var sum float64
	var scored int
	for _, a := range iv.Answers {
		if a.Evaluation != nil {
			sum += a.Evaluation.Score
			scored++
		}
	}
	avg := 0.0
	if scored > 0 {
		avg = sum / float64(scored)
	}

	return &ProgressFeedback{
		Progress:          progress,
		AverageScore:      avg,
		QuestionsAnswered: answered,
		TotalQuestions:    total,
		Feedback:          encouragementFor(avg),
	}
}

// EndSession deactivates and removes the session. Unknown ids and repeated
// calls are no-ops, matching the lenient semantics a disconnect handler needs.
func (m *Manager) EndSession(ctx context.Context, sessionID string) error {
	for {
		sess, err := m.sessions.Get(ctx, sessionID)
		if errors.Is(err, session.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		sess.Active = false
		err = m.sessions.Update(ctx, sess)
		if errors.Is(err, session.ErrVersionConflict) {
			continue
		}
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			return err
		}
		break
	}

	if err := m.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	m.releaseLock(sessionID)
	m.logger.Sugar().Infow("session ended", "session_id", sessionID)
	return nil
}

func (m *Manager) activeSession(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !sess.Active {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// complete runs the aggregator and deactivates the session atomically with
// the interview's transition to completed.
func (m *Manager) complete(ctx context.Context, sess *session.Session, iv *model.Interview) error {
	if err := m.aggregator.Finish(ctx, iv); err != nil {
		return err
	}

	sess.Active = false
	if err := m.saveSession(ctx, sess); err != nil {
		m.logger.Sugar().Warnw("session deactivation failed after completion",
			"session_id", sess.ID, "err", err)
	}
	_ = m.sessions.Delete(ctx, sess.ID)
	m.releaseLock(sess.ID)

	m.logger.Sugar().Infow("interview completed",
		"interview_id", iv.ID, "percentage", iv.Percentage, "recommendation", iv.Recommendation)
	return nil
}

func (m *Manager) saveSession(ctx context.Context, sess *session.Session) error {
	err := m.sessions.Update(ctx, sess)
	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrVersionConflict) {
		// The session was torn down while this submission was in flight.
		return ErrSessionNotFound
	}
	return err
}

// mergeAnswer folds a follow-up response into the answer already recorded for
// the same question, keeping the latest evaluation.
func (m *Manager) mergeAnswer(iv *model.Interview, answer model.Answer) model.Answer {
	for i := range iv.Answers {
		if iv.Answers[i].QuestionID == answer.QuestionID {
			iv.Answers[i].Text += "\n" + answer.Text
			iv.Answers[i].Evaluation = answer.Evaluation
			iv.Answers[i].SubmittedAt = answer.SubmittedAt
			return iv.Answers[i]
		}
	}
	iv.Answers = append(iv.Answers, answer)
	return answer
}

func (m *Manager) emitInterviewerTurn(ctx context.Context, sess *session.Session, content string) {
	m.emitTurn(ctx, sess, model.RoleInterviewer, content)
}

func (m *Manager) emitCandidateTurn(ctx context.Context, sess *session.Session, content string) {
	m.emitTurn(ctx, sess, model.RoleCandidate, content)
}

// emitTurn records one turn in the session history, the durable record and
// the transcript. A persistence failure is logged, not fatal to the flow.
func (m *Manager) emitTurn(ctx context.Context, sess *session.Session, role model.Role, content string) {
	turn := model.ConversationTurn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	sess.History = append(sess.History, turn)

	if err := m.interviews.AppendTurn(ctx, sess.InterviewID, turn); err != nil {
		m.logger.Sugar().Warnw("turn persistence failed",
			"session_id", sess.ID, "role", role, "err", err)
	}
	m.transcripts.Append(sess.InterviewID, content, role)
}

func encouragementFor(avg float64) string {
	switch {
	case avg >= 8:
		return "Excellent work so far. Your answers are detailed and well structured."
	case avg >= 6:
		return "Good progress. Keep backing your answers with concrete examples."
	case avg >= 4:
		return "You are doing fine. Take a moment to structure your answers before responding."
	default:
		return "Keep going. Focus on answering the question directly and build from there."
	}
}
