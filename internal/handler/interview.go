package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/surajmeruva0786/hiregenieai-sub001/internal/interview"
	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/model"
	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/response"
)

func (h *Handler) CreateInterview(c *gin.Context) {
	var req model.CreateInterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	questions := h.Planner.InitialQuestions(c.Request.Context(), req.Position, req.InterviewType, req.Profile)
	if req.NumQuestions > 0 && req.NumQuestions < len(questions) {
		questions = questions[:req.NumQuestions]
	}

	iv := &model.Interview{
		ID:            uuid.New(),
		CandidateName: req.CandidateName,
		Position:      req.Position,
		InterviewType: req.InterviewType,
		Status:        model.StatusScheduled,
		Questions:     questions,
		CreatedAt:     time.Now(),
	}

	if err := h.Interviews.CreateInterview(c.Request.Context(), iv); err != nil {
		h.Logger.Sugar().Errorw("failed to create interview", "err", err)
		response.InternalError(c, "failed to create interview")
		return
	}

	response.Created(c, gin.H{
		"interview_id": iv.ID,
		"questions":    len(iv.Questions),
	})
}

func (h *Handler) GetInterview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid interview id")
		return
	}

	iv, err := h.Interviews.GetInterview(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, interview.ErrInterviewNotFound) {
			response.NotFound(c, "interview not found")
			return
		}
		h.Logger.Sugar().Errorw("failed to get interview", "id", id, "err", err)
		response.InternalError(c, "")
		return
	}

	response.OK(c, iv)
}
