package interview

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/surajmeruva0786/hiregenieai-sub001/internal/session"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/transcript"
	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

// fakeStore is an in-memory Store used by engine tests.
type fakeStore struct {
	mu          sync.Mutex
	interviews  map[uuid.UUID]*model.Interview
	completions int
}

func newFakeStore() *fakeStore {
	return &fakeStore{interviews: make(map[uuid.UUID]*model.Interview)}
}

func (s *fakeStore) CreateInterview(ctx context.Context, iv *model.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *iv
	s.interviews[iv.ID] = &cp
	return nil
}

func (s *fakeStore) GetInterview(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.interviews[id]
	if !ok {
		return nil, ErrInterviewNotFound
	}
	cp := *iv
	cp.Questions = append([]model.Question(nil), iv.Questions...)
	cp.Answers = append([]model.Answer(nil), iv.Answers...)
	cp.Turns = append([]model.ConversationTurn(nil), iv.Turns...)
	return &cp, nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InterviewStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.interviews[id]
	if !ok {
		return ErrInterviewNotFound
	}
	iv.Status = status
	return nil
}

func (s *fakeStore) AppendTurn(ctx context.Context, id uuid.UUID, turn model.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.interviews[id]
	if !ok {
		return ErrInterviewNotFound
	}
	iv.Turns = append(iv.Turns, turn)
	return nil
}

func (s *fakeStore) AppendAnswer(ctx context.Context, id uuid.UUID, answer model.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.interviews[id]
	if !ok {
		return ErrInterviewNotFound
	}
	iv.Answers = append(iv.Answers, answer)
	return nil
}

func (s *fakeStore) UpdateAnswer(ctx context.Context, id uuid.UUID, answer model.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.interviews[id]
	if !ok {
		return ErrInterviewNotFound
	}
	for i := range iv.Answers {
		if iv.Answers[i].QuestionID == answer.QuestionID {
			iv.Answers[i] = answer
			return nil
		}
	}
	return errors.New("answer not found")
}

func (s *fakeStore) CompleteInterview(ctx context.Context, iv *model.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.interviews[iv.ID]
	if !ok {
		return ErrInterviewNotFound
	}
	cp := *iv
	*stored = cp
	s.completions++
	return nil
}

func (s *fakeStore) get(id uuid.UUID) *model.Interview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interviews[id]
}

func (s *fakeStore) completionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completions
}

// fakeProvider scripts the generative collaborator. Scores are consumed in
// submission order; when the queue is empty the last score repeats.
type fakeProvider struct {
	mu        sync.Mutex
	scores    []float64
	evalErr   error
	genErr    error
	followErr error
	evalCalls int
	// when set, Evaluate blocks until the gate is closed
	gate chan struct{}
}

func (p *fakeProvider) nextScore() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evalCalls++
	if len(p.scores) == 0 {
		return 5
	}
	score := p.scores[0]
	if len(p.scores) > 1 {
		p.scores = p.scores[1:]
	}
	return score
}

func (p *fakeProvider) GenerateQuestions(ctx context.Context, position string, interviewType model.InterviewType, profile string, n int) ([]model.Question, error) {
	if p.genErr != nil {
		return nil, p.genErr
	}
	out := make([]model.Question, n)
	for i := range out {
		out[i] = model.Question{
			ID:         uuid.New(),
			Text:       fmt.Sprintf("generated question %d", i+1),
			Difficulty: model.DifficultyMedium,
			CreatedAt:  time.Now(),
		}
	}
	return out, nil
}

func (p *fakeProvider) AdaptiveQuestion(ctx context.Context, position string, difficulty model.Difficulty, turns []model.ConversationTurn) (string, error) {
	if p.genErr != nil {
		return "", p.genErr
	}
	return fmt.Sprintf("adaptive %s question", difficulty), nil
}

func (p *fakeProvider) Evaluate(ctx context.Context, question, expectedHint, answer string) (*model.Evaluation, error) {
	if p.gate != nil {
		<-p.gate
	}
	if p.evalErr != nil {
		return nil, p.evalErr
	}
	return &model.Evaluation{
		Score:       p.nextScore(),
		MaxScore:    10,
		Feedback:    "scripted feedback",
		Evaluator:   "groq",
		EvaluatedAt: time.Now(),
	}, nil
}

func (p *fakeProvider) FollowUp(ctx context.Context, question, answer string) (string, error) {
	if p.followErr != nil {
		return "", p.followErr
	}
	return "could you elaborate on that?", nil
}

func (p *fakeProvider) OverallFeedback(ctx context.Context, transcript string) (string, error) {
	return "scripted overall feedback", nil
}

// fixedSource drives rand.Float64 to return (approximately) the scripted
// values in order, cycling when exhausted.
type fixedSource struct {
	vals []float64
	i    int
}

func (s *fixedSource) Int63() int64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return int64(v * (1 << 63))
}

func (s *fixedSource) Seed(int64) {}

func fixedRand(vals ...float64) *rand.Rand {
	return rand.New(&fixedSource{vals: vals})
}

type testEngine struct {
	store    *fakeStore
	provider *fakeProvider
	sessions session.Store
	manager  *Manager
	planner  *Planner
}

func newTestEngine(provider *fakeProvider, rng *rand.Rand) *testEngine {
	logger := zap.NewNop()
	store := newFakeStore()
	sessions, _ := session.NewStore("memory")
	planner := NewPlanner(provider, DefaultPlannerConfig(), rng, logger)
	recorder := transcript.NewRecorder(nopSummarizer{}, logger)
	aggregator := NewAggregator(store, provider, time.Second, logger)
	manager := NewManager(store, sessions, planner, provider, aggregator, recorder, time.Second, logger)
	return &testEngine{
		store:    store,
		provider: provider,
		sessions: sessions,
		manager:  manager,
		planner:  planner,
	}
}

func (e *testEngine) addInterview(questions int) uuid.UUID {
	iv := &model.Interview{
		ID:            uuid.New(),
		CandidateName: "Alex Doe",
		Position:      "Backend Engineer",
		InterviewType: model.TypeTechnical,
		Status:        model.StatusScheduled,
		CreatedAt:     time.Now(),
	}
	for i := 0; i < questions; i++ {
		iv.Questions = append(iv.Questions, model.Question{
			ID:         uuid.New(),
			Text:       fmt.Sprintf("question %d", i+1),
			Difficulty: model.DifficultyMedium,
			CreatedAt:  time.Now(),
		})
	}
	_ = e.store.CreateInterview(context.Background(), iv)
	return iv.ID
}

type nopSummarizer struct{}

func (nopSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return "", errors.New("unavailable")
}

func (nopSummarizer) KeyPoints(ctx context.Context, text string) ([]string, error) {
	return nil, errors.New("unavailable")
}
