package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tunebridge/suno-gateway/pkg/auth"
	"github.com/tunebridge/suno-gateway/pkg/musicapi"
	"github.com/tunebridge/suno-gateway/pkg/suno"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error   musicapi.Kind `json:"error"`
	Message string        `json:"message"`
	Details any           `json:"details,omitempty"`
}

// wrappedBody is the success envelope for operations that wrap their data.
// AudioInfo endpoints return their payload bare for client compatibility.
type wrappedBody struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeWrapped(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, wrappedBody{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// writeError emits the error envelope and one structured log record. The
// typed error message never carries the credential.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, operation string, start time.Time, err error) {
	typed := musicapi.AsError(err)
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Duration("duration", time.Since(start)),
		zap.String("error_kind", string(typed.Kind)),
	}
	if typed.TaskID != "" {
		fields = append(fields, zap.String("task_id", typed.TaskID))
	}
	s.log.Error("request failed", fields...)

	writeJSON(w, typed.HTTPStatus(), errorBody{
		Error:   typed.Kind,
		Message: typed.Message,
		Details: typed.Details,
	})
}

// credential resolves the upstream key for one request: Bearer header
// first, process env second.
func (s *server) credential(r *http.Request) (string, *musicapi.Error) {
	key, err := auth.Resolve(r, s.cfg.SunoAPIKey)
	if err != nil {
		return "", musicapi.WrapError(musicapi.KindAuth, "no API key provided", err)
	}
	return key, nil
}

func decodeBody(r *http.Request, v any) *musicapi.Error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return musicapi.Validationf("invalid JSON body: %v", err)
	}
	return nil
}

// Generate runs the simple generation flow end to end; it also backs the
// OpenAI compatibility shim.
func (s *server) Generate(ctx context.Context, credential string, req musicapi.GenerateRequest) ([]musicapi.AudioInfo, error) {
	taskID, err := s.client.SubmitGenerate(ctx, credential, req)
	if err != nil {
		return nil, err
	}
	if !req.WaitAudio {
		return s.coordinator.InitialRecords(ctx, credential, taskID), nil
	}
	return s.coordinator.WaitForAudio(ctx, credential, taskID, suno.WaitOptions{
		ReturnOnStream: req.StreamEarly,
	})
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req musicapi.GenerateRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, "generate", start, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, "generate", start, err)
		return
	}
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "generate", start, cerr)
		return
	}

	records, err := s.Generate(r.Context(), credential, req)
	if err != nil {
		s.writeError(w, r, "generate", start, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *server) handleCustomGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req musicapi.CustomGenerateRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, "custom_generate", start, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, "custom_generate", start, err)
		return
	}
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "custom_generate", start, cerr)
		return
	}

	taskID, err := s.client.SubmitCustomGenerate(r.Context(), credential, req)
	if err != nil {
		s.writeError(w, r, "custom_generate", start, err)
		return
	}
	s.respondGeneration(w, r, "custom_generate", start, credential, taskID, req.WaitAudio, req.StreamEarly)
}

// transformHandler builds the handler for one transform operation; they all
// share the request shape and wait semantics.
func (s *server) transformHandler(op suno.TransformOp) http.HandlerFunc {
	names := map[suno.TransformOp]string{
		suno.OpExtend:          "extend_audio",
		suno.OpCover:           "cover_audio",
		suno.OpUploadCover:     "upload_cover",
		suno.OpAddVocals:       "add_vocals",
		suno.OpAddInstrumental: "add_instrumental",
	}
	operation := names[op]

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		var req musicapi.TransformRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, r, operation, start, err)
			return
		}
		if err := req.Validate(); err != nil {
			s.writeError(w, r, operation, start, err)
			return
		}
		credential, cerr := s.credential(r)
		if cerr != nil {
			s.writeError(w, r, operation, start, cerr)
			return
		}

		taskID, err := s.client.SubmitTransform(r.Context(), credential, op, req)
		if err != nil {
			s.writeError(w, r, operation, start, err)
			return
		}
		s.respondGeneration(w, r, operation, start, credential, taskID, req.WaitAudio, req.StreamEarly)
	}
}

// respondGeneration finishes any generation endpoint after a successful
// submit: immediate records for async callers, a full wait otherwise.
func (s *server) respondGeneration(w http.ResponseWriter, r *http.Request, operation string, start time.Time, credential, taskID string, wait, streamEarly bool) {
	if !wait {
		writeJSON(w, http.StatusOK, s.coordinator.InitialRecords(r.Context(), credential, taskID))
		return
	}
	records, err := s.coordinator.WaitForAudio(r.Context(), credential, taskID, suno.WaitOptions{
		ReturnOnStream: streamEarly,
	})
	if err != nil {
		s.writeError(w, r, operation, start, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *server) handleGenerateLyrics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req musicapi.LyricsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, "generate_lyrics", start, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, "generate_lyrics", start, err)
		return
	}
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "generate_lyrics", start, cerr)
		return
	}

	result, err := s.client.GenerateLyrics(r.Context(), credential, req.Prompt)
	if err != nil {
		s.writeError(w, r, "generate_lyrics", start, err)
		return
	}
	writeWrapped(w, result)
}

func (s *server) handleGenerateStems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req musicapi.StemsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, "generate_stems", start, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, "generate_stems", start, err)
		return
	}
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "generate_stems", start, cerr)
		return
	}

	taskID, err := s.client.SubmitStems(r.Context(), credential, req)
	if err != nil {
		s.writeError(w, r, "generate_stems", start, err)
		return
	}
	writeWrapped(w, map[string]string{"task_id": taskID})
}

func (s *server) handleStemsInfo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	taskID := strings.TrimSpace(r.URL.Query().Get("task_id"))
	if taskID == "" {
		s.writeError(w, r, "stems_info", start, musicapi.Validationf("task_id query parameter is required"))
		return
	}
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "stems_info", start, cerr)
		return
	}

	record, err := s.coordinator.WaitForStems(r.Context(), credential, taskID, suno.WaitOptions{})
	if err != nil {
		s.writeError(w, r, "stems_info", start, err)
		return
	}
	writeWrapped(w, record)
}

func (s *server) handleConvertWav(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req musicapi.WavRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, "convert_wav", start, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, "convert_wav", start, err)
		return
	}
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "convert_wav", start, cerr)
		return
	}

	taskID, err := s.client.SubmitWav(r.Context(), credential, req)
	if err != nil {
		s.writeError(w, r, "convert_wav", start, err)
		return
	}
	writeWrapped(w, map[string]string{"task_id": taskID})
}

func (s *server) handleWavInfo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	taskID := strings.TrimSpace(r.URL.Query().Get("task_id"))
	if taskID == "" {
		s.writeError(w, r, "wav_info", start, musicapi.Validationf("task_id query parameter is required"))
		return
	}
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "wav_info", start, cerr)
		return
	}

	details, err := s.client.FetchWav(r.Context(), credential, taskID)
	if err != nil {
		s.writeError(w, r, "wav_info", start, err)
		return
	}
	writeWrapped(w, details)
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	raw := r.URL.Query().Get("ids")
	ids := splitIDs(raw)
	if err := musicapi.ValidateIDList(ids); err != nil {
		s.writeError(w, r, "get", start, err)
		return
	}
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "get", start, cerr)
		return
	}

	records, err := s.client.FetchTasks(r.Context(), credential, ids)
	if err != nil {
		s.writeError(w, r, "get", start, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *server) handleClip(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		s.writeError(w, r, "clip", start, musicapi.Validationf("id query parameter is required"))
		return
	}
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "clip", start, cerr)
		return
	}

	records, err := s.client.FetchTask(r.Context(), credential, id)
	if err != nil {
		s.writeError(w, r, "clip", start, err)
		return
	}
	writeJSON(w, http.StatusOK, records[0])
}

func (s *server) handleAlignedLyrics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		s.writeError(w, r, "get_aligned_lyrics", start, musicapi.Validationf("id query parameter is required"))
		return
	}
	audioID := strings.TrimSpace(r.URL.Query().Get("audio_id"))
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "get_aligned_lyrics", start, cerr)
		return
	}

	words, err := s.client.AlignedLyrics(r.Context(), credential, id, audioID)
	if err != nil {
		s.writeError(w, r, "get_aligned_lyrics", start, err)
		return
	}
	writeWrapped(w, words)
}

func (s *server) handleGetLimit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	credential, cerr := s.credential(r)
	if cerr != nil {
		s.writeError(w, r, "get_limit", start, cerr)
		return
	}

	credits, err := s.client.GetCredits(r.Context(), credential)
	if err != nil {
		s.writeError(w, r, "get_limit", start, err)
		return
	}
	writeWrapped(w, credits)
}

func splitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, strings.TrimSpace(p))
	}
	return ids
}
