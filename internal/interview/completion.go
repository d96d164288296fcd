package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/surajmeruva0786/hiregenieai-sub001/internal/ai"
	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

const fallbackOverallFeedback = "Thank you for completing the interview. The candidate's responses have been recorded and scored."

// RecommendationFor maps a percentage score to a hiring recommendation.
func RecommendationFor(percentage float64) model.Recommendation {
	switch {
	case percentage >= 80:
		return model.RecommendStrongHire
	case percentage >= 65:
		return model.RecommendHire
	case percentage >= 50:
		return model.RecommendMaybe
	default:
		return model.RecommendNoHire
	}
}

// Aggregator computes the final score, percentage and recommendation once the
// question supply is exhausted, and persists the whole completion atomically.
type Aggregator struct {
	interviews  Store
	provider    Provider
	evalTimeout time.Duration
	logger      *zap.Logger
}

func NewAggregator(interviews Store, provider Provider, evalTimeout time.Duration, logger *zap.Logger) *Aggregator {
	if evalTimeout <= 0 {
		evalTimeout = 30 * time.Second
	}
	return &Aggregator{
		interviews:  interviews,
		provider:    provider,
		evalTimeout: evalTimeout,
		logger:      logger,
	}
}

// Finish runs the completion pipeline on the interview: evaluates any answer
// still lacking an evaluation, aggregates scores, derives the recommendation,
// generates overall feedback and persists score, percentage, recommendation,
// feedback and status together.
func (a *Aggregator) Finish(ctx context.Context, iv *model.Interview) error {
	for i := range iv.Answers {
		if iv.Answers[i].Evaluation != nil {
			continue
		}

		var questionText, hint string
		if q := iv.QuestionByID(iv.Answers[i].QuestionID); q != nil {
			questionText, hint = q.Text, q.ExpectedAnswer
		}

		ectx, cancel := context.WithTimeout(ctx, a.evalTimeout)
		ev, err := a.provider.Evaluate(ectx, questionText, hint, iv.Answers[i].Text)
		cancel()
		if err != nil {
			a.logger.Sugar().Warnw("completion evaluation degraded",
				"interview_id", iv.ID, "question_id", iv.Answers[i].QuestionID, "err", err)
			ev = ai.FallbackEvaluation()
		}
		iv.Answers[i].Evaluation = ev
	}

	var total float64
	for _, ans := range iv.Answers {
		total += ans.Evaluation.Score
	}
	maxScore := float64(len(iv.Answers)) * 10

	percentage := 0.0
	if maxScore > 0 {
		percentage = total / maxScore * 100
	}

	iv.TotalScore = total
	iv.MaxScore = maxScore
	iv.Percentage = percentage
	iv.Recommendation = RecommendationFor(percentage)
	iv.OverallFeedback = a.overallFeedback(ctx, iv)
	iv.Status = model.StatusCompleted
	now := time.Now()
	iv.CompletedAt = &now

	if err := a.interviews.CompleteInterview(ctx, iv); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}
	return nil
}

func (a *Aggregator) overallFeedback(ctx context.Context, iv *model.Interview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Position: %s\n", iv.Position)
	for _, ans := range iv.Answers {
		questionText := ""
		if q := iv.QuestionByID(ans.QuestionID); q != nil {
			questionText = q.Text
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s\nScore: %.1f/10\n\n", questionText, ans.Text, ans.Evaluation.Score)
	}

	fctx, cancel := context.WithTimeout(ctx, a.evalTimeout)
	defer cancel()
	feedback, err := a.provider.OverallFeedback(fctx, b.String())
	if err != nil || feedback == "" {
		if err != nil {
			a.logger.Sugar().Warnw("overall feedback degraded", "interview_id", iv.ID, "err", err)
		}
		return fallbackOverallFeedback
	}
	return feedback
}
