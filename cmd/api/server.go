package main

import (
	"log"
	"net/http"
	"time"
)

func (app *application) serve() error {
	server := &http.Server{
		Addr:        app.Config.GetServerAddr(),
		Handler:     app.routes(),
		IdleTimeout: time.Minute,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: websocket connections outlive any fixed deadline.
	}

	log.Printf("Starting server on %s", app.Config.GetServerAddr())

	return server.ListenAndServe()
}
