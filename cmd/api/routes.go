package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (app *application) routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(app.requestLogger())
	r.Use(app.corsMiddleware())

	// realtime duplex channel
	r.GET("/ws", app.Gateway.Handle)

	v1 := r.Group("/api/v1")
	{
		// interview routes
		v1.POST("/interviews", app.Handler.CreateInterview)
		v1.GET("/interviews/:id", app.Handler.GetInterview)
		v1.POST("/interviews/:id/session", app.Handler.StartSession)
		v1.GET("/interviews/:id/transcript", app.Handler.ExportTranscript)
		v1.GET("/interviews/:id/transcript/summary", app.Handler.TranscriptSummary)

		// session routes (single-shot equivalents of the socket events)
		v1.POST("/sessions/:id/answers", app.Handler.SubmitAnswer)
		v1.POST("/sessions/:id/adaptive-question", app.Handler.AdaptiveQuestion)
		v1.GET("/sessions/:id/feedback", app.Handler.GetFeedback)
		v1.DELETE("/sessions/:id", app.Handler.EndSession)
	}

	return r
}
