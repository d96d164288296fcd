package model

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptSegment is one speaker-tagged chunk of interview text. Segments are
// immutable once appended; insertion order equals timestamp order.
type TranscriptSegment struct {
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
	Speaker    Role      `json:"speaker"`
}

// Transcript is the ordered, append-only segment log for one interview plus a
// derived concatenated full-text view.
type Transcript struct {
	InterviewID uuid.UUID           `json:"interview_id"`
	Segments    []TranscriptSegment `json:"segments"`
	FullText    string              `json:"full_text"`
	CreatedAt   time.Time           `json:"created_at"`
}
