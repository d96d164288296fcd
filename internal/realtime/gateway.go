// Package realtime is the duplex transport gateway for live interview
// sessions: it upgrades HTTP connections to websockets, dispatches inbound
// events to the session engine and broadcasts updates to interview rooms.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/surajmeruva0786/hiregenieai-sub001/internal/interview"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/transcript"
)

// Gateway owns the websocket endpoint and the per-interview broadcast rooms.
type Gateway struct {
	manager     *interview.Manager
	transcripts *transcript.Recorder
	logger      *zap.Logger
	upgrader    websocket.Upgrader

	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*client]struct{}
}

// client is one websocket connection. Writes are serialized by the mutex;
// reads happen only in the connection's own read loop.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex

	// sessions started on this connection, ended best-effort on disconnect
	sessions map[string]struct{}
	// interview rooms this connection joined
	joined map[uuid.UUID]struct{}
}

func NewGateway(manager *interview.Manager, transcripts *transcript.Recorder, trustedOrigins []string, logger *zap.Logger) *Gateway {
	origins := make(map[string]struct{}, len(trustedOrigins))
	for _, o := range trustedOrigins {
		origins[o] = struct{}{}
	}

	return &Gateway{
		manager:     manager,
		transcripts: transcripts,
		logger:      logger,
		rooms:       make(map[uuid.UUID]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Handle upgrades the request and runs the connection's event loop. One event
// is handled at a time per connection; connections are independent.
func (g *Gateway) Handle(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.logger.Sugar().Warnw("websocket upgrade failed", "err", err)
		return
	}

	cl := &client{
		conn:     conn,
		sessions: make(map[string]struct{}),
		joined:   make(map[uuid.UUID]struct{}),
	}

	defer g.disconnect(cl)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			cl.send(EventError, errorPayload{Message: "malformed frame"})
			continue
		}

		g.dispatch(c.Request.Context(), cl, frame)
	}
}

func (g *Gateway) dispatch(ctx context.Context, cl *client, frame Frame) {
	switch frame.Event {
	case EventJoinInterview:
		g.handleJoin(cl, frame.Data)
	case EventStartSession:
		g.handleStart(ctx, cl, frame.Data)
	case EventSubmitAnswer:
		g.handleSubmit(ctx, cl, frame.Data)
	case EventRequestFeedback:
		g.handleFeedback(ctx, cl, frame.Data)
	case EventAudioChunk:
		g.handleAudioChunk(cl, frame.Data)
	default:
		cl.send(EventError, errorPayload{Message: "unknown event: " + frame.Event})
	}
}

func (g *Gateway) handleJoin(cl *client, data json.RawMessage) {
	var req joinInterviewReq
	if err := json.Unmarshal(data, &req); err != nil || req.InterviewID == uuid.Nil {
		cl.send(EventError, errorPayload{Message: "invalid join-interview payload"})
		return
	}

	g.mu.Lock()
	room, ok := g.rooms[req.InterviewID]
	if !ok {
		room = make(map[*client]struct{})
		g.rooms[req.InterviewID] = room
	}
	room[cl] = struct{}{}
	g.mu.Unlock()

	cl.joined[req.InterviewID] = struct{}{}
	cl.send(EventJoined, gin.H{"interviewId": req.InterviewID, "userId": req.UserID})
}

func (g *Gateway) handleStart(ctx context.Context, cl *client, data json.RawMessage) {
	var req startSessionReq
	if err := json.Unmarshal(data, &req); err != nil || req.InterviewID == uuid.Nil {
		cl.send(EventError, errorPayload{Message: "invalid start-realtime-session payload"})
		return
	}

	sess, first, err := g.manager.StartSession(ctx, req.InterviewID)
	if err != nil {
		if errors.Is(err, interview.ErrInterviewNotFound) {
			cl.send(EventError, errorPayload{Message: "interview not found"})
			return
		}
		g.logger.Sugar().Errorw("start session failed", "interview_id", req.InterviewID, "err", err)
		cl.send(EventError, errorPayload{Message: "failed to start session"})
		return
	}

	cl.sessions[sess.ID] = struct{}{}

	total := 0
	if fb, err := g.manager.GetFeedback(ctx, sess.ID); err == nil {
		total = fb.TotalQuestions
	}
	cl.send(EventSessionStarted, gin.H{
		"sessionId":      sess.ID,
		"firstQuestion":  first,
		"totalQuestions": total,
	})
}

func (g *Gateway) handleSubmit(ctx context.Context, cl *client, data json.RawMessage) {
	var req submitAnswerReq
	if err := json.Unmarshal(data, &req); err != nil || req.SessionID == "" || req.Answer == "" {
		cl.send(EventError, errorPayload{Message: "invalid submit-answer payload"})
		return
	}

	result, err := g.manager.SubmitAnswer(ctx, req.SessionID, req.Answer, req.IsVoice)
	if err != nil {
		if errors.Is(err, interview.ErrSessionNotFound) {
			cl.send(EventError, errorPayload{Message: "session not found"})
			return
		}
		g.logger.Sugar().Errorw("submit answer failed", "session_id", req.SessionID, "err", err)
		cl.send(EventError, errorPayload{Message: "failed to process answer"})
		return
	}

	cl.send(EventAnswerEvaluated, result)

	if result.IsComplete {
		delete(cl.sessions, req.SessionID)
	}

	// The progress update goes to the room of the interview this session
	// belongs to, not the rooms the submitter joined. The completing answer
	// still emits one final update.
	if result.Progress != nil {
		g.broadcast(result.InterviewID, EventFeedbackUpdate, result.Progress)
	}
}

func (g *Gateway) handleFeedback(ctx context.Context, cl *client, data json.RawMessage) {
	var req requestFeedbackReq
	if err := json.Unmarshal(data, &req); err != nil || req.SessionID == "" {
		cl.send(EventError, errorPayload{Message: "invalid request-feedback payload"})
		return
	}

	feedback, err := g.manager.GetFeedback(ctx, req.SessionID)
	if err != nil {
		// Unknown session yields no feedback event at all.
		return
	}
	cl.send(EventFeedback, feedback)
}

func (g *Gateway) handleAudioChunk(cl *client, data json.RawMessage) {
	var req audioChunkReq
	if err := json.Unmarshal(data, &req); err != nil || req.InterviewID == uuid.Nil {
		cl.send(EventError, errorPayload{Message: "invalid audio-chunk payload"})
		return
	}

	seg := g.transcripts.TranscribeAudio(req.InterviewID, req.AudioData)
	cl.send(EventTranscription, gin.H{"text": seg.Text, "confidence": seg.Confidence})
}

// disconnect tears the connection down: sessions started here are ended
// best-effort and room membership is dropped. Never surfaces an error.
func (g *Gateway) disconnect(cl *client) {
	for id := range cl.sessions {
		if err := g.manager.EndSession(context.Background(), id); err != nil {
			g.logger.Sugar().Warnw("end session on disconnect failed", "session_id", id, "err", err)
		}
	}

	g.mu.Lock()
	for id := range cl.joined {
		if room, ok := g.rooms[id]; ok {
			delete(room, cl)
			if len(room) == 0 {
				delete(g.rooms, id)
			}
		}
	}
	g.mu.Unlock()

	_ = cl.conn.Close()
}

func (g *Gateway) broadcast(interviewID uuid.UUID, event string, data interface{}) {
	g.mu.RLock()
	members := make([]*client, 0, len(g.rooms[interviewID]))
	for cl := range g.rooms[interviewID] {
		members = append(members, cl)
	}
	g.mu.RUnlock()

	for _, cl := range members {
		cl.send(event, data)
	}
}

func (cl *client) send(event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	_ = cl.conn.WriteJSON(Frame{Event: event, Data: payload})
}
