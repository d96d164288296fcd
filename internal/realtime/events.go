package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Frame is the wire envelope for every duplex-channel message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound events.
const (
	EventJoinInterview   = "join-interview"
	EventStartSession    = "start-realtime-session"
	EventSubmitAnswer    = "submit-answer"
	EventRequestFeedback = "request-feedback"
	EventAudioChunk      = "audio-chunk"
)

// Outbound events.
const (
	EventJoined          = "joined"
	EventSessionStarted  = "session-started"
	EventAnswerEvaluated = "answer-evaluated"
	EventFeedback        = "feedback"
	EventFeedbackUpdate  = "feedback-update"
	EventTranscription   = "transcription"
	EventError           = "error"
)

type joinInterviewReq struct {
	InterviewID uuid.UUID `json:"interviewId"`
	UserID      string    `json:"userId"`
}

type startSessionReq struct {
	InterviewID uuid.UUID `json:"interviewId"`
}

type submitAnswerReq struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
	IsVoice   bool   `json:"isVoice"`
}

type requestFeedbackReq struct {
	SessionID string `json:"sessionId"`
}

type audioChunkReq struct {
	InterviewID uuid.UUID `json:"interviewId"`
	AudioData   []byte    `json:"audioData"`
}

type errorPayload struct {
	Message string `json:"message"`
}
