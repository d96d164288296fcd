package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

// EvaluatorGroq tags evaluations produced by the model; EvaluatorFallback tags
// the degraded default substituted when the provider fails.
const (
	EvaluatorGroq     = "groq"
	EvaluatorFallback = "fallback"
)

type evaluationResult struct {
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// Evaluate scores one question/answer pair on a 0-10 scale. It is callable
// independently of any session state. On error the caller substitutes
// FallbackEvaluation rather than failing the interview flow.
func (c *Client) Evaluate(ctx context.Context, question, expectedHint, answer string) (*model.Evaluation, error) {
	systemMsg := `You are a strict but fair interview evaluator. Output ONLY a valid JSON object, no additional text, markdown, or backticks, with:
- "score": a number from 0 to 10
- "feedback": 1-3 sentences of specific feedback
- "strengths": array of short strings
- "improvements": array of short strings`

	userPrompt := fmt.Sprintf("Question: %s\n", question)
	if expectedHint != "" {
		userPrompt += fmt.Sprintf("A strong answer covers: %s\n", expectedHint)
	}
	userPrompt += fmt.Sprintf("Candidate answer: %s", answer)
	if len(userPrompt) > 8000 {
		userPrompt = userPrompt[:8000]
	}

	var res evaluationResult
	err := c.chatJSON(ctx, ChatRequest{
		Messages: []map[string]string{
			{"role": "system", "content": systemMsg},
			{"role": "user", "content": userPrompt},
		},
		MaxTokens:   600,
		Temperature: 0.0,
	}, &res)
	if err != nil {
		return nil, err
	}

	score := res.Score
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	return &model.Evaluation{
		Score:        score,
		MaxScore:     10,
		Feedback:     res.Feedback,
		Strengths:    res.Strengths,
		Improvements: res.Improvements,
		Evaluator:    EvaluatorGroq,
		EvaluatedAt:  time.Now(),
	}, nil
}

// FallbackEvaluation is the degraded default used when the evaluator fails:
// score 5, empty lists, tagged so downstream consumers can tell it apart.
func FallbackEvaluation() *model.Evaluation {
	return &model.Evaluation{
		Score:        5,
		MaxScore:     10,
		Feedback:     "",
		Strengths:    []string{},
		Improvements: []string{},
		Evaluator:    EvaluatorFallback,
		EvaluatedAt:  time.Now(),
	}
}
