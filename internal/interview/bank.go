package interview

import (
	"time"

	"github.com/google/uuid"

	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

// Generic per-type question banks used when question generation fails.
var questionBank = map[model.InterviewType][]model.Question{
	model.TypeTechnical: {
		{Text: "Walk me through a technically challenging project you worked on recently.", Category: "experience", Difficulty: model.DifficultyMedium},
		{Text: "How do you decide between optimizing for readability and optimizing for performance?", Category: "engineering", Difficulty: model.DifficultyMedium},
		{Text: "Describe how you would debug a service that intermittently returns errors in production.", Category: "debugging", Difficulty: model.DifficultyHard},
		{Text: "What testing strategies do you apply before shipping a change?", Category: "testing", Difficulty: model.DifficultyEasy},
		{Text: "Explain a design decision you later regretted and what you learned from it.", Category: "design", Difficulty: model.DifficultyMedium},
	},
	model.TypeBehavioral: {
		{Text: "Tell me about a time you disagreed with a teammate and how you resolved it.", Category: "teamwork", Difficulty: model.DifficultyMedium},
		{Text: "Describe a situation where you had to deliver under a tight deadline.", Category: "pressure", Difficulty: model.DifficultyMedium},
		{Text: "Give an example of feedback you received that changed how you work.", Category: "growth", Difficulty: model.DifficultyEasy},
		{Text: "Tell me about a time you took ownership of a problem outside your role.", Category: "ownership", Difficulty: model.DifficultyMedium},
		{Text: "Describe a failure you experienced and how you handled it.", Category: "resilience", Difficulty: model.DifficultyHard},
	},
	model.TypeMixed: {
		{Text: "Walk me through a project you are proud of and your specific contribution.", Category: "experience", Difficulty: model.DifficultyEasy},
		{Text: "How do you approach learning a technology you have never used before?", Category: "growth", Difficulty: model.DifficultyEasy},
		{Text: "Describe a time you had to simplify a complex technical topic for a non-technical audience.", Category: "communication", Difficulty: model.DifficultyMedium},
		{Text: "How would you improve a system you currently work with, given unlimited time?", Category: "design", Difficulty: model.DifficultyMedium},
		{Text: "Tell me about a production incident you were involved in and your role in resolving it.", Category: "operations", Difficulty: model.DifficultyHard},
	},
}

// bankQuestions returns up to n normalized questions from the fallback bank,
// cycling if more are requested than the bank holds.
func bankQuestions(interviewType model.InterviewType, n int) []model.Question {
	bank, ok := questionBank[interviewType]
	if !ok {
		bank = questionBank[model.TypeMixed]
	}

	now := time.Now()
	out := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		q := bank[i%len(bank)]
		q.ID = uuid.New()
		q.CreatedAt = now
		out = append(out, q)
	}
	return out
}
