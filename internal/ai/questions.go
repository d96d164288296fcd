package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

type generatedQuestion struct {
	Question       string `json:"question"`
	Category       string `json:"category"`
	Difficulty     string `json:"difficulty"`
	ExpectedAnswer string `json:"expected_answer"`
}

// GenerateQuestions asks the model for n interview questions tailored to the
// position and candidate profile. Each question is normalized with a
// server-generated id, a difficulty label and a capture timestamp.
func (c *Client) GenerateQuestions(ctx context.Context, position string, interviewType model.InterviewType, profile string, n int) ([]model.Question, error) {
	systemMsg := `You are an expert interviewer. Output ONLY a valid JSON array, no additional text, markdown, or explanation.

Each item must be an object with:
- "question": the question text
- "category": a one or two word topic label
- "difficulty": one of "easy", "medium", "hard"
- "expected_answer": a short hint describing what a strong answer covers

Output must be valid JSON. No prefix, suffix, or backticks.`

	userPrompt := fmt.Sprintf("Generate %d %s interview questions for a %s position.", n, interviewType, position)
	if profile != "" {
		userPrompt += fmt.Sprintf("\nCandidate profile:\n%s", profile)
	}
	if len(userPrompt) > 8000 {
		userPrompt = userPrompt[:8000]
	}

	var generated []generatedQuestion
	err := c.chatJSON(ctx, ChatRequest{
		Messages: []map[string]string{
			{"role": "system", "content": systemMsg},
			{"role": "user", "content": userPrompt},
		},
		MaxTokens:   2000,
		Temperature: 0.7,
	}, &generated)
	if err != nil {
		return nil, err
	}
	if len(generated) == 0 {
		return nil, fmt.Errorf("empty question list")
	}

	now := time.Now()
	out := make([]model.Question, 0, len(generated))
	for _, g := range generated {
		if strings.TrimSpace(g.Question) == "" {
			continue
		}
		out = append(out, model.Question{
			ID:             uuid.New(),
			Text:           g.Question,
			Category:       g.Category,
			Difficulty:     normalizeDifficulty(g.Difficulty),
			ExpectedAnswer: g.ExpectedAnswer,
			CreatedAt:      now,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no usable questions in response")
	}
	return out, nil
}

// AdaptiveQuestion produces one next question at the target difficulty using
// recent conversation turns as context.
func (c *Client) AdaptiveQuestion(ctx context.Context, position string, difficulty model.Difficulty, turns []model.ConversationTurn) (string, error) {
	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}

	systemMsg := fmt.Sprintf("You are conducting a %s interview. Based on the conversation so far, ask ONE %s-difficulty question. Output only the question text, nothing else.", position, difficulty)

	question, err := c.Chat(ctx, ChatRequest{
		Messages: []map[string]string{
			{"role": "system", "content": systemMsg},
			{"role": "user", "content": b.String()},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(question), nil
}

func normalizeDifficulty(s string) model.Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return model.DifficultyEasy
	case "hard":
		return model.DifficultyHard
	default:
		return model.DifficultyMedium
	}
}
