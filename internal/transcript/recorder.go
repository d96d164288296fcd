// Package transcript keeps the append-only, speaker-tagged text log for each
// interview and exposes export, summarization and key-point extraction.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

var ErrNotFound = errors.New("transcript not found")

const (
	// Typed text is recorded verbatim.
	typedConfidence = 1.0
	// The built-in transcriber is a stub; real speech-to-text is external.
	audioConfidence = 0.95

	fallbackSummary = "Transcript summary is unavailable."
)

// Summarizer is the generative collaborator used for summaries and key
// points. Failures degrade to fixed fallbacks, never errors.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	KeyPoints(ctx context.Context, text string) ([]string, error)
}

type Recorder struct {
	mu          sync.RWMutex
	transcripts map[uuid.UUID]*model.Transcript
	summarizer  Summarizer
	logger      *zap.Logger
}

func NewRecorder(summarizer Summarizer, logger *zap.Logger) *Recorder {
	return &Recorder{
		transcripts: make(map[uuid.UUID]*model.Transcript),
		summarizer:  summarizer,
		logger:      logger,
	}
}

// Initialize creates an empty transcript for the interview. Calling it again
// for the same id resets the transcript: old segments are discarded rather
// than accumulated.
func (r *Recorder) Initialize(interviewID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transcripts[interviewID] = &model.Transcript{
		InterviewID: interviewID,
		Segments:    []model.TranscriptSegment{},
		CreatedAt:   time.Now(),
	}
}

// Append records one directly-typed segment and regenerates the full-text
// view. The transcript is created on first use if Initialize was never called.
func (r *Recorder) Append(interviewID uuid.UUID, text string, speaker model.Role) {
	r.append(interviewID, text, speaker, typedConfidence)
}

// TranscribeAudio is a stub standing in for an external speech-to-text
// collaborator. It records a placeholder segment and returns it.
func (r *Recorder) TranscribeAudio(interviewID uuid.UUID, audio []byte) model.TranscriptSegment {
	text := fmt.Sprintf("[audio segment, %d bytes]", len(audio))
	return r.append(interviewID, text, model.RoleCandidate, audioConfidence)
}

func (r *Recorder) append(interviewID uuid.UUID, text string, speaker model.Role, confidence float64) model.TranscriptSegment {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.transcripts[interviewID]
	if !ok {
		t = &model.Transcript{
			InterviewID: interviewID,
			Segments:    []model.TranscriptSegment{},
			CreatedAt:   time.Now(),
		}
		r.transcripts[interviewID] = t
	}

	seg := model.TranscriptSegment{
		Text:       text,
		Timestamp:  time.Now(),
		Confidence: confidence,
		Speaker:    speaker,
	}
	t.Segments = append(t.Segments, seg)

	if t.FullText != "" {
		t.FullText += "\n"
	}
	t.FullText += fmt.Sprintf("%s: %s", speaker, text)

	return seg
}

// Get returns a copy of the transcript for the interview.
func (r *Recorder) Get(interviewID uuid.UUID) (*model.Transcript, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transcripts[interviewID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	cp.Segments = append([]model.TranscriptSegment(nil), t.Segments...)
	return &cp, nil
}

// Export serializes the transcript. Format "json" is the structured form that
// round-trips to the identical ordered segment list; "text" is a timestamped
// human-readable form. Every segment appears exactly once, in order.
func (r *Recorder) Export(interviewID uuid.UUID, format string) (string, error) {
	t, err := r.Get(interviewID)
	if err != nil {
		return "", err
	}

	switch format {
	case "json":
		b, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode transcript: %w", err)
		}
		return string(b), nil
	case "text":
		var b strings.Builder
		fmt.Fprintf(&b, "Interview %s transcript\n\n", t.InterviewID)
		for _, seg := range t.Segments {
			fmt.Fprintf(&b, "[%s] %s: %s\n", seg.Timestamp.Format(time.RFC3339), seg.Speaker, seg.Text)
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// Summarize produces a short summary of the transcript, degrading to a fixed
// fallback string when the collaborator fails.
func (r *Recorder) Summarize(ctx context.Context, interviewID uuid.UUID) string {
	t, err := r.Get(interviewID)
	if err != nil || t.FullText == "" {
		return fallbackSummary
	}

	summary, err := r.summarizer.Summarize(ctx, t.FullText)
	if err != nil {
		r.logger.Sugar().Warnw("transcript summarization degraded", "interview_id", interviewID, "err", err)
		return fallbackSummary
	}
	return summary
}

// ExtractKeyPoints lists the main discussion points, degrading to an empty
// list when the collaborator fails.
func (r *Recorder) ExtractKeyPoints(ctx context.Context, interviewID uuid.UUID) []string {
	t, err := r.Get(interviewID)
	if err != nil || t.FullText == "" {
		return []string{}
	}

	points, err := r.summarizer.KeyPoints(ctx, t.FullText)
	if err != nil {
		r.logger.Sugar().Warnw("key point extraction degraded", "interview_id", interviewID, "err", err)
		return []string{}
	}
	return points
}
