package ai

import (
	"context"
	"fmt"
	"strings"
)

// FollowUp generates a single short probing question for the given
// question/answer pair. Callers treat an error as "no follow-up".
func (c *Client) FollowUp(ctx context.Context, question, answer string) (string, error) {
	systemMsg := "You are an interviewer. Ask ONE short, specific follow-up question that probes deeper into the candidate's answer. Output only the question text, nothing else."

	userPrompt := fmt.Sprintf("Original question: %s\nCandidate answer: %s", question, answer)
	if len(userPrompt) > 6000 {
		userPrompt = userPrompt[:6000]
	}

	followUp, err := c.Chat(ctx, ChatRequest{
		Messages: []map[string]string{
			{"role": "system", "content": systemMsg},
			{"role": "user", "content": userPrompt},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(followUp), nil
}

// OverallFeedback turns the full question/answer/score record into a short
// overall assessment. Callers substitute a fixed sentence on error.
func (c *Client) OverallFeedback(ctx context.Context, transcript string) (string, error) {
	systemMsg := "You are an interview assessor. Given the full question/answer/score record, write 2-4 sentences of overall feedback for the candidate. Output only the feedback text."

	if len(transcript) > 10000 {
		transcript = transcript[:10000]
	}

	feedback, err := c.Chat(ctx, ChatRequest{
		Messages: []map[string]string{
			{"role": "system", "content": systemMsg},
			{"role": "user", "content": transcript},
		},
		MaxTokens:   400,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(feedback), nil
}

// Summarize condenses a transcript into a short summary.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if len(text) > 10000 {
		text = text[:10000]
	}

	summary, err := c.Chat(ctx, ChatRequest{
		Messages: []map[string]string{
			{"role": "system", "content": "Summarize this interview transcript in 3-5 sentences. Output only the summary."},
			{"role": "user", "content": text},
		},
		MaxTokens:   400,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

// KeyPoints extracts the main discussion points from a transcript.
func (c *Client) KeyPoints(ctx context.Context, text string) ([]string, error) {
	if len(text) > 10000 {
		text = text[:10000]
	}

	var points []string
	err := c.chatJSON(ctx, ChatRequest{
		Messages: []map[string]string{
			{"role": "system", "content": "Extract the key points from this interview transcript. Output ONLY a valid JSON array of short strings, no markdown or backticks."},
			{"role": "user", "content": text},
		},
		MaxTokens:   400,
		Temperature: 0.0,
	}, &points)
	if err != nil {
		return nil, err
	}
	return points, nil
}
