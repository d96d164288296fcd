package handler

import (
	"go.uber.org/zap"

	"github.com/surajmeruva0786/hiregenieai-sub001/internal/interview"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/transcript"
)

// Handler carries the single-shot HTTP surface. It drives the same session
// engine as the websocket gateway, so both paths produce identical interview
// record side effects.
type Handler struct {
	Logger      *zap.Logger
	Interviews  interview.Store
	Manager     *interview.Manager
	Planner     *interview.Planner
	Transcripts *transcript.Recorder
}
