package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ppopeskul/sms-relay/internal/api"
)

func setupRouter(handler api.ServerInterface) http.Handler {
	r := chi.NewRouter()

	// Serve OpenAPI spec
	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, "api/openapi.yaml")
	})

	// Serve the bundled web UI
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, "static/index.html")
	})
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		http.StripPrefix("/static/", http.FileServer(http.Dir("static"))).ServeHTTP(w, req)
	})

	// Mount API routes
	r.Mount("/", api.Handler(handler))

	return r
}
