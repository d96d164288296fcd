package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/surajmeruva0786/hiregenieai-sub001/internal/interview"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/session"
	"github.com/surajmeruva0786/hiregenieai-sub001/internal/transcript"
	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
)

// memStore is a minimal in-memory interview.Store for gateway tests.
type memStore struct {
	mu         sync.Mutex
	interviews map[uuid.UUID]*model.Interview
}

func newMemStore() *memStore {
	return &memStore{interviews: make(map[uuid.UUID]*model.Interview)}
}

func (s *memStore) CreateInterview(ctx context.Context, iv *model.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *iv
	s.interviews[iv.ID] = &cp
	return nil
}

func (s *memStore) GetInterview(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.interviews[id]
	if !ok {
		return nil, interview.ErrInterviewNotFound
	}
	cp := *iv
	cp.Questions = append([]model.Question(nil), iv.Questions...)
	cp.Answers = append([]model.Answer(nil), iv.Answers...)
	cp.Turns = append([]model.ConversationTurn(nil), iv.Turns...)
	return &cp, nil
}

func (s *memStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InterviewStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if iv, ok := s.interviews[id]; ok {
		iv.Status = status
	}
	return nil
}

func (s *memStore) AppendTurn(ctx context.Context, id uuid.UUID, turn model.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if iv, ok := s.interviews[id]; ok {
		iv.Turns = append(iv.Turns, turn)
	}
	return nil
}

func (s *memStore) AppendAnswer(ctx context.Context, id uuid.UUID, answer model.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if iv, ok := s.interviews[id]; ok {
		iv.Answers = append(iv.Answers, answer)
	}
	return nil
}

func (s *memStore) UpdateAnswer(ctx context.Context, id uuid.UUID, answer model.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if iv, ok := s.interviews[id]; ok {
		for i := range iv.Answers {
			if iv.Answers[i].QuestionID == answer.QuestionID {
				iv.Answers[i] = answer
				return nil
			}
		}
	}
	return nil
}

func (s *memStore) CompleteInterview(ctx context.Context, iv *model.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *iv
	s.interviews[iv.ID] = &cp
	return nil
}

// scriptedProvider always scores 7.5, which never triggers a follow-up.
type scriptedProvider struct{}

func (scriptedProvider) GenerateQuestions(ctx context.Context, position string, interviewType model.InterviewType, profile string, n int) ([]model.Question, error) {
	return nil, nil
}

func (scriptedProvider) AdaptiveQuestion(ctx context.Context, position string, difficulty model.Difficulty, turns []model.ConversationTurn) (string, error) {
	return "scripted adaptive question", nil
}

func (scriptedProvider) Evaluate(ctx context.Context, question, expectedHint, answer string) (*model.Evaluation, error) {
	return &model.Evaluation{Score: 7.5, MaxScore: 10, Feedback: "ok", Evaluator: "groq", EvaluatedAt: time.Now()}, nil
}

func (scriptedProvider) FollowUp(ctx context.Context, question, answer string) (string, error) {
	return "", nil
}

func (scriptedProvider) OverallFeedback(ctx context.Context, transcript string) (string, error) {
	return "scripted overall feedback", nil
}

type gatewayEnv struct {
	store    *memStore
	sessions session.Store
	server   *httptest.Server
}

func newGatewayEnv(t *testing.T) *gatewayEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store := newMemStore()
	sessions, err := session.NewStore("memory")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sessions.Close() })

	provider := scriptedProvider{}
	planner := interview.NewPlanner(provider, interview.DefaultPlannerConfig(), rand.New(rand.NewSource(1)), logger)
	recorder := transcript.NewRecorder(nopSummarizer{}, logger)
	aggregator := interview.NewAggregator(store, provider, time.Second, logger)
	manager := interview.NewManager(store, sessions, planner, provider, aggregator, recorder, time.Second, logger)

	gw := NewGateway(manager, recorder, []string{"http://localhost:3000"}, logger)

	router := gin.New()
	router.GET("/ws", gw.Handle)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &gatewayEnv{store: store, sessions: sessions, server: srv}
}

type nopSummarizer struct{}

func (nopSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return "summary", nil
}

func (nopSummarizer) KeyPoints(ctx context.Context, text string) ([]string, error) {
	return nil, nil
}

func (e *gatewayEnv) addInterview(t *testing.T, questions int) uuid.UUID {
	t.Helper()
	iv := &model.Interview{
		ID:            uuid.New(),
		CandidateName: "Alex Doe",
		Position:      "Backend Engineer",
		InterviewType: model.TypeTechnical,
		Status:        model.StatusScheduled,
		CreatedAt:     time.Now(),
	}
	for i := 0; i < questions; i++ {
		iv.Questions = append(iv.Questions, model.Question{ID: uuid.New(), Text: "a question", CreatedAt: time.Now()})
	}
	if err := e.store.CreateInterview(context.Background(), iv); err != nil {
		t.Fatal(err)
	}
	return iv.ID
}

func (e *gatewayEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *websocket.Conn, event string, data interface{}) {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(Frame{Event: event, Data: payload}); err != nil {
		t.Fatal(err)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatal(err)
	}
	return frame
}

func TestGatewayJoinAndStart(t *testing.T) {
	env := newGatewayEnv(t)
	id := env.addInterview(t, 2)
	conn := env.dial(t)

	sendFrame(t, conn, EventJoinInterview, map[string]interface{}{"interviewId": id, "userId": "u1"})
	frame := readFrame(t, conn)
	if frame.Event != EventJoined {
		t.Fatalf("expected joined, got %s", frame.Event)
	}

	sendFrame(t, conn, EventStartSession, map[string]interface{}{"interviewId": id})
	frame = readFrame(t, conn)
	if frame.Event != EventSessionStarted {
		t.Fatalf("expected session-started, got %s: %s", frame.Event, frame.Data)
	}

	var started struct {
		SessionID      string          `json:"sessionId"`
		FirstQuestion  *model.Question `json:"firstQuestion"`
		TotalQuestions int             `json:"totalQuestions"`
	}
	if err := json.Unmarshal(frame.Data, &started); err != nil {
		t.Fatal(err)
	}
	if started.SessionID == "" || started.FirstQuestion == nil || started.TotalQuestions != 2 {
		t.Fatalf("unexpected session-started payload: %s", frame.Data)
	}
}

func TestGatewaySubmitAnswerFlow(t *testing.T) {
	env := newGatewayEnv(t)
	id := env.addInterview(t, 1)
	conn := env.dial(t)

	sendFrame(t, conn, EventJoinInterview, map[string]interface{}{"interviewId": id})
	readFrame(t, conn)

	sendFrame(t, conn, EventStartSession, map[string]interface{}{"interviewId": id})
	frame := readFrame(t, conn)
	var started struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(frame.Data, &started); err != nil {
		t.Fatal(err)
	}

	sendFrame(t, conn, EventSubmitAnswer, map[string]interface{}{
		"sessionId": started.SessionID,
		"answer":    "a reasonable answer",
	})

	frame = readFrame(t, conn)
	if frame.Event != EventAnswerEvaluated {
		t.Fatalf("expected answer-evaluated, got %s: %s", frame.Event, frame.Data)
	}
	var result interview.SubmissionResult
	if err := json.Unmarshal(frame.Data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Evaluation == nil || result.Evaluation.Score != 7.5 {
		t.Fatalf("unexpected evaluation: %+v", result.Evaluation)
	}
	if !result.IsComplete {
		t.Fatalf("single-question interview must complete, got %+v", result)
	}

	iv, _ := env.store.GetInterview(context.Background(), id)
	if iv.Status != model.StatusCompleted {
		t.Fatalf("expected completed interview, got %s", iv.Status)
	}
}

func TestGatewayFeedbackBroadcast(t *testing.T) {
	env := newGatewayEnv(t)
	id := env.addInterview(t, 2)

	watcher := env.dial(t)
	sendFrame(t, watcher, EventJoinInterview, map[string]interface{}{"interviewId": id})
	readFrame(t, watcher)

	candidate := env.dial(t)
	sendFrame(t, candidate, EventJoinInterview, map[string]interface{}{"interviewId": id})
	readFrame(t, candidate)

	sendFrame(t, candidate, EventStartSession, map[string]interface{}{"interviewId": id})
	frame := readFrame(t, candidate)
	var started struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(frame.Data, &started); err != nil {
		t.Fatal(err)
	}

	sendFrame(t, candidate, EventSubmitAnswer, map[string]interface{}{
		"sessionId": started.SessionID,
		"answer":    "an answer",
	})

	// The watcher sees the progress update without submitting anything.
	frame = readFrame(t, watcher)
	if frame.Event != EventFeedbackUpdate {
		t.Fatalf("expected feedback-update, got %s: %s", frame.Event, frame.Data)
	}
	var feedback interview.ProgressFeedback
	if err := json.Unmarshal(frame.Data, &feedback); err != nil {
		t.Fatal(err)
	}
	if feedback.QuestionsAnswered != 1 || feedback.TotalQuestions != 2 {
		t.Fatalf("unexpected progress: %+v", feedback)
	}
}

func TestGatewayBroadcastTargetsSessionRoom(t *testing.T) {
	env := newGatewayEnv(t)
	idA := env.addInterview(t, 2)
	idB := env.addInterview(t, 2)

	// The watcher observes interview B; the candidate joined only interview
	// A's room but runs a session over interview B.
	watcher := env.dial(t)
	sendFrame(t, watcher, EventJoinInterview, map[string]interface{}{"interviewId": idB})
	readFrame(t, watcher)

	candidate := env.dial(t)
	sendFrame(t, candidate, EventJoinInterview, map[string]interface{}{"interviewId": idA})
	readFrame(t, candidate)

	sendFrame(t, candidate, EventStartSession, map[string]interface{}{"interviewId": idB})
	frame := readFrame(t, candidate)
	var started struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(frame.Data, &started); err != nil {
		t.Fatal(err)
	}

	sendFrame(t, candidate, EventSubmitAnswer, map[string]interface{}{
		"sessionId": started.SessionID,
		"answer":    "an answer",
	})

	// Interview B's room gets the update even though the submitter never
	// joined it.
	frame = readFrame(t, watcher)
	if frame.Event != EventFeedbackUpdate {
		t.Fatalf("expected feedback-update in the session's room, got %s: %s", frame.Event, frame.Data)
	}
	var feedback interview.ProgressFeedback
	if err := json.Unmarshal(frame.Data, &feedback); err != nil {
		t.Fatal(err)
	}
	if feedback.QuestionsAnswered != 1 || feedback.TotalQuestions != 2 {
		t.Fatalf("unexpected progress: %+v", feedback)
	}

	// The candidate sits only in interview A's room, so after its own
	// answer-evaluated frame nothing else arrives.
	frame = readFrame(t, candidate)
	if frame.Event != EventAnswerEvaluated {
		t.Fatalf("expected answer-evaluated, got %s", frame.Event)
	}
	candidate.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var stray Frame
	if err := candidate.ReadJSON(&stray); err == nil {
		t.Fatalf("unrelated room received a broadcast: %s %s", stray.Event, stray.Data)
	}
}

func TestGatewayFinalFeedbackBroadcast(t *testing.T) {
	env := newGatewayEnv(t)
	id := env.addInterview(t, 1)

	watcher := env.dial(t)
	sendFrame(t, watcher, EventJoinInterview, map[string]interface{}{"interviewId": id})
	readFrame(t, watcher)

	candidate := env.dial(t)
	sendFrame(t, candidate, EventStartSession, map[string]interface{}{"interviewId": id})
	frame := readFrame(t, candidate)
	var started struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(frame.Data, &started); err != nil {
		t.Fatal(err)
	}

	sendFrame(t, candidate, EventSubmitAnswer, map[string]interface{}{
		"sessionId": started.SessionID,
		"answer":    "the only answer",
	})

	// The completing answer still produces one last room update.
	frame = readFrame(t, watcher)
	if frame.Event != EventFeedbackUpdate {
		t.Fatalf("expected final feedback-update, got %s: %s", frame.Event, frame.Data)
	}
	var feedback interview.ProgressFeedback
	if err := json.Unmarshal(frame.Data, &feedback); err != nil {
		t.Fatal(err)
	}
	if feedback.Progress != 100 || feedback.QuestionsAnswered != 1 {
		t.Fatalf("unexpected final progress: %+v", feedback)
	}
}

func TestGatewayAudioChunk(t *testing.T) {
	env := newGatewayEnv(t)
	id := env.addInterview(t, 1)
	conn := env.dial(t)

	sendFrame(t, conn, EventAudioChunk, map[string]interface{}{
		"interviewId": id,
		"audioData":   []byte{1, 2, 3, 4},
	})

	frame := readFrame(t, conn)
	if frame.Event != EventTranscription {
		t.Fatalf("expected transcription, got %s: %s", frame.Event, frame.Data)
	}
	var payload struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(frame.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Text != "[audio segment, 4 bytes]" || payload.Confidence != 0.95 {
		t.Fatalf("unexpected transcription payload: %+v", payload)
	}
}

func TestGatewayRejectsMalformedFrames(t *testing.T) {
	env := newGatewayEnv(t)
	conn := env.dial(t)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	frame := readFrame(t, conn)
	if frame.Event != EventError {
		t.Fatalf("expected error frame, got %s", frame.Event)
	}

	sendFrame(t, conn, "no-such-event", map[string]string{})
	frame = readFrame(t, conn)
	if frame.Event != EventError {
		t.Fatalf("expected error frame for unknown event, got %s", frame.Event)
	}

	sendFrame(t, conn, EventStartSession, map[string]interface{}{"interviewId": uuid.New()})
	frame = readFrame(t, conn)
	if frame.Event != EventError {
		t.Fatalf("expected error frame for unknown interview, got %s", frame.Event)
	}
}

func TestGatewayDisconnectEndsSession(t *testing.T) {
	env := newGatewayEnv(t)
	id := env.addInterview(t, 2)
	conn := env.dial(t)

	sendFrame(t, conn, EventStartSession, map[string]interface{}{"interviewId": id})
	frame := readFrame(t, conn)
	var started struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(frame.Data, &started); err != nil {
		t.Fatal(err)
	}

	conn.Close()

	// The gateway ends the session best-effort once the read loop exits.
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, err := env.sessions.Get(context.Background(), started.SessionID)
		if errors.Is(err, session.ErrNotFound) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("session still alive after disconnect")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
