package openaicompat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tunebridge/suno-gateway/pkg/musicapi"
)

// Generator runs one synchronous music generation. Satisfied by the
// gateway's generate adapter.
type Generator interface {
	Generate(ctx context.Context, credential string, req musicapi.GenerateRequest) ([]musicapi.AudioInfo, error)
}

// Shim answers chat-completions requests by generating music from the last
// user message.
type Shim struct {
	gen Generator
}

// NewShim builds the compatibility shim on top of a generator.
func NewShim(gen Generator) *Shim {
	return &Shim{gen: gen}
}

// Complete translates a chat request into a synchronous generation and
// formats the produced tracks as an assistant message. Streaming is not
// supported; the response always carries stream=false.
func (s *Shim) Complete(ctx context.Context, credential string, req ChatRequest) (ChatResponse, error) {
	prompt := lastUserContent(req.Messages)
	if prompt == "" {
		return ChatResponse{}, musicapi.Validationf("no user message with content found")
	}

	genReq := musicapi.GenerateRequest{
		Prompt:           prompt,
		MakeInstrumental: false,
		WaitAudio:        true,
	}
	if err := genReq.Validate(); err != nil {
		return ChatResponse{}, err
	}

	tracks, err := s.gen.Generate(ctx, credential, genReq)
	if err != nil {
		return ChatResponse{}, err
	}

	return ChatResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   string(genReq.Model),
		Stream:  false,
		Choices: []Choice{{
			Index: 0,
			Message: ChatMessage{
				Role:    "assistant",
				Content: formatTracks(tracks),
			},
			FinishReason: "stop",
		}},
		Usage: Usage{},
	}, nil
}

// lastUserContent returns the content of the final user message.
func lastUserContent(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}

// formatTracks renders the generated tracks as a human-readable list.
func formatTracks(tracks []musicapi.AudioInfo) string {
	var b strings.Builder
	b.WriteString("I generated the following tracks:\n")
	for i, t := range tracks {
		title := t.Title
		if title == "" {
			title = "Untitled"
		}
		url := ""
		if t.AudioURL != nil {
			url = *t.AudioURL
		} else if t.StreamAudioURL != nil {
			url = *t.StreamAudioURL
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, title, url)
	}
	return b.String()
}
