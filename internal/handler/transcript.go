package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/surajmeruva0786/hiregenieai-sub001/internal/transcript"
	"github.com/surajmeruva0786/hiregenieai-sub001/pkg/response"
)

func (h *Handler) ExportTranscript(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid interview id")
		return
	}

	format := c.DefaultQuery("format", "json")
	content, err := h.Transcripts.Export(id, format)
	if err != nil {
		if errors.Is(err, transcript.ErrNotFound) {
			response.NotFound(c, "transcript not found")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	if format == "json" {
		c.Data(http.StatusOK, "application/json", []byte(content))
		return
	}
	c.String(http.StatusOK, content)
}

func (h *Handler) TranscriptSummary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid interview id")
		return
	}

	response.OK(c, gin.H{
		"summary":    h.Transcripts.Summarize(c.Request.Context(), id),
		"key_points": h.Transcripts.ExtractKeyPoints(c.Request.Context(), id),
	})
}
