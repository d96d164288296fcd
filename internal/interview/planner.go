package interview

import (
	"context"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

// PlannerConfig tunes the question count and the follow-up branching policy.
type PlannerConfig struct {
	NumQuestions int
	// Follow up with LowProb when score < LowScore, with HighProb when
	// score >= HighScore, never in between.
	LowScore  float64
	HighScore float64
	LowProb   float64
	HighProb  float64
}

// DefaultPlannerConfig matches the documented branching policy: 5 questions,
// probability 0.6 below score 7, 0.3 at score 8 and above.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		NumQuestions: 5,
		LowScore:     7,
		HighScore:    8,
		LowProb:      0.6,
		HighProb:     0.3,
	}
}

// Planner produces the initial question set and decides follow-up branching.
// The RNG is injected so tests can force either branch.
type Planner struct {
	provider Provider
	cfg      PlannerConfig
	logger   *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPlanner(provider Provider, cfg PlannerConfig, rng *rand.Rand, logger *zap.Logger) *Planner {
	if cfg.NumQuestions <= 0 {
		cfg.NumQuestions = DefaultPlannerConfig().NumQuestions
	}
	return &Planner{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
		rng:      rng,
	}
}

// InitialQuestions returns the opening question set for an interview. On any
// provider failure it falls back to the built-in per-type bank, so a session
// never starts with zero questions through this path.
func (p *Planner) InitialQuestions(ctx context.Context, position string, interviewType model.InterviewType, profile string) []model.Question {
	questions, err := p.provider.GenerateQuestions(ctx, position, interviewType, profile, p.cfg.NumQuestions)
	if err != nil {
		p.logger.Sugar().Warnw("question generation degraded, using bank",
			"position", position, "type", interviewType, "err", err)
		return bankQuestions(interviewType, p.cfg.NumQuestions)
	}
	if len(questions) > p.cfg.NumQuestions {
		questions = questions[:p.cfg.NumQuestions]
	}
	return questions
}

// DecideFollowUp draws against the score-banded thresholds. Scores in
// [LowScore, HighScore) never trigger a follow-up.
func (p *Planner) DecideFollowUp(score float64) bool {
	var prob float64
	switch {
	case score < p.cfg.LowScore:
		prob = p.cfg.LowProb
	case score >= p.cfg.HighScore:
		prob = p.cfg.HighProb
	default:
		return false
	}

	p.mu.Lock()
	draw := p.rng.Float64()
	p.mu.Unlock()
	return draw < prob
}

// FollowUpQuestion asks the provider for one short probing question. An empty
// result means "no follow-up"; the caller advances to the next question.
func (p *Planner) FollowUpQuestion(ctx context.Context, question, answer string) string {
	followUp, err := p.provider.FollowUp(ctx, question, answer)
	if err != nil {
		p.logger.Sugar().Warnw("follow-up generation degraded", "err", err)
		return ""
	}
	return followUp
}
