package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/surajmeruva0786/hiregenieai-sub001/internal/interview"
	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/response"
)

func (h *Handler) StartSession(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid interview id")
		return
	}

	sess, first, err := h.Manager.StartSession(c.Request.Context(), interviewID)
	if err != nil {
		if errors.Is(err, interview.ErrInterviewNotFound) {
			response.NotFound(c, "interview not found")
			return
		}
		h.Logger.Sugar().Errorw("failed to start session", "interview_id", interviewID, "err", err)
		response.InternalError(c, "failed to start session")
		return
	}

	response.OK(c, gin.H{
		"session_id":     sess.ID,
		"first_question": first,
	})
}

func (h *Handler) SubmitAnswer(c *gin.Context) {
	sessionID := c.Param("id")

	var req model.SubmitAnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.Manager.SubmitAnswer(c.Request.Context(), sessionID, req.Answer, req.IsVoice)
	if err != nil {
		if errors.Is(err, interview.ErrSessionNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		h.Logger.Sugar().Errorw("failed to submit answer", "session_id", sessionID, "err", err)
		response.InternalError(c, "failed to process answer")
		return
	}

	response.OK(c, result)
}

func (h *Handler) AdaptiveQuestion(c *gin.Context) {
	sessionID := c.Param("id")

	var req model.AdaptiveQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	question, err := h.Manager.GenerateAdaptiveQuestion(c.Request.Context(), sessionID, req.PreviousScore)
	if err != nil {
		if errors.Is(err, interview.ErrSessionNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		h.Logger.Sugar().Errorw("failed to generate adaptive question", "session_id", sessionID, "err", err)
		response.InternalError(c, "")
		return
	}

	// An empty question means no adaptive question is available, not an error.
	if question == "" {
		response.OK(c, gin.H{"question": nil})
		return
	}
	response.OK(c, gin.H{"question": question})
}

func (h *Handler) GetFeedback(c *gin.Context) {
	sessionID := c.Param("id")

	feedback, err := h.Manager.GetFeedback(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, interview.ErrSessionNotFound) {
			response.NotFound(c, "session not found")
			return
		}
		h.Logger.Sugar().Errorw("failed to get feedback", "session_id", sessionID, "err", err)
		response.InternalError(c, "")
		return
	}

	response.OK(c, feedback)
}

// EndSession is idempotent: ending an unknown or already-ended session is a
// no-op, matching disconnect-handler semantics.
func (h *Handler) EndSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.Manager.EndSession(c.Request.Context(), sessionID); err != nil {
		h.Logger.Sugar().Warnw("failed to end session", "session_id", sessionID, "err", err)
	}
	response.NoContent(c)
}
