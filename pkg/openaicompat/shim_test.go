package openaicompat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebridge/suno-gateway/pkg/musicapi"
)

type fakeGenerator struct {
	lastCredential string
	lastRequest    musicapi.GenerateRequest
	tracks         []musicapi.AudioInfo
	err            error
}

func (f *fakeGenerator) Generate(ctx context.Context, credential string, req musicapi.GenerateRequest) ([]musicapi.AudioInfo, error) {
	f.lastCredential = credential
	f.lastRequest = req
	return f.tracks, f.err
}

func strp(s string) *string { return &s }

func TestCompleteGeneratesFromLastUserMessage(t *testing.T) {
	gen := &fakeGenerator{
		tracks: []musicapi.AudioInfo{
			{ID: "trk-1", Title: "Neon Tide", Status: musicapi.StatusComplete, AudioURL: strp("https://cdn.example/neon.mp3")},
			{ID: "trk-2", Title: "Glass City", Status: musicapi.StatusComplete, AudioURL: strp("https://cdn.example/glass.mp3")},
		},
	}
	shim := NewShim(gen)

	resp, err := shim.Complete(context.Background(), "key-123", ChatRequest{
		Model: "gpt-4",
		Messages: []ChatMessage{
			{Role: "system", Content: "You are a music assistant."},
			{Role: "user", Content: "an upbeat synthwave track"},
			{Role: "assistant", Content: "on it"},
			{Role: "user", Content: "  a calm piano ballad  "},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "a calm piano ballad", gen.lastRequest.Prompt)
	assert.True(t, gen.lastRequest.WaitAudio)
	assert.Equal(t, "key-123", gen.lastCredential)

	assert.Equal(t, "chat.completion", resp.Object)
	assert.False(t, resp.Stream)
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "assistant", resp.Choices[0].Message.Role)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)

	content := resp.Choices[0].Message.Content
	assert.Contains(t, content, "Neon Tide")
	assert.Contains(t, content, "https://cdn.example/neon.mp3")
	assert.Contains(t, content, "Glass City")
	assert.Contains(t, content, "https://cdn.example/glass.mp3")

	assert.Zero(t, resp.Usage.PromptTokens)
	assert.Zero(t, resp.Usage.CompletionTokens)
	assert.Zero(t, resp.Usage.TotalTokens)
}

func TestCompleteNoUserMessage(t *testing.T) {
	shim := NewShim(&fakeGenerator{})

	_, err := shim.Complete(context.Background(), "key", ChatRequest{
		Messages: []ChatMessage{{Role: "system", Content: "hello"}},
	})
	require.Error(t, err)
	assert.True(t, musicapi.IsKind(err, musicapi.KindValidation))
}

func TestCompletePropagatesGeneratorError(t *testing.T) {
	genErr := musicapi.NewError(musicapi.KindGeneration, "content policy")
	shim := NewShim(&fakeGenerator{err: genErr})

	_, err := shim.Complete(context.Background(), "key", ChatRequest{
		Messages: []ChatMessage{{Role: "user", Content: "a song"}},
	})
	require.Error(t, err)
	var typed *musicapi.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, musicapi.KindGeneration, typed.Kind)
}

func TestFormatTracksFallsBackToStreamURL(t *testing.T) {
	content := formatTracks([]musicapi.AudioInfo{
		{ID: "trk-1", Status: musicapi.StatusStreaming, StreamAudioURL: strp("https://cdn.example/stream.mp3")},
	})
	assert.Contains(t, content, "Untitled")
	assert.Contains(t, content, "https://cdn.example/stream.mp3")
}
