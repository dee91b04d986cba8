package main

import (
	"net/http"
	"time"

	"github.com/tunebridge/suno-gateway/pkg/openaicompat"
)

// handleChatCompletions serves the OpenAI compatibility surface: the last
// user message becomes the generation prompt and the answer lists the
// produced tracks.
func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req openaicompat.ChatRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, "chat_completions", start, err)
		return
	}
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "chat_completions", start, cerr)
		return
	}

	resp, err := s.shim.Complete(r.Context(), credential, req)
	if err != nil {
		s.writeError(w, r, "chat_completions", start, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
