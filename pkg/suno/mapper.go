package suno

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tunebridge/suno-gateway/pkg/musicapi"
)

// TransformOp selects a transform operation over an existing track or an
// uploaded source.
type TransformOp int

const (
	// OpExtend continues an existing track from a given offset.
	OpExtend TransformOp = iota
	// OpCover re-renders an existing track in a new style.
	OpCover
	// OpUploadCover re-renders uploaded audio in a new style.
	OpUploadCover
	// OpAddVocals adds vocals onto an instrumental source.
	OpAddVocals
	// OpAddInstrumental adds instrumentation under a vocal source.
	OpAddInstrumental
)

func (op TransformOp) path() (string, error) {
	switch op {
	case OpExtend:
		return pathExtend, nil
	case OpCover:
		return pathCover, nil
	case OpUploadCover:
		return pathUploadCover, nil
	case OpAddVocals:
		return pathAddVocals, nil
	case OpAddInstrumental:
		return pathAddInstrumental, nil
	default:
		return "", musicapi.NewError(musicapi.KindInternal, "unknown transform operation")
	}
}

// modelToUpstream is the bijection between gateway model tokens and the
// upstream model names. The upstream token never leaves this package.
var modelToUpstream = map[musicapi.ModelVersion]string{
	musicapi.ModelV3_5:     "chirp-v3-5",
	musicapi.ModelV4:       "chirp-v4",
	musicapi.ModelV4_5:     "chirp-v4-5",
	musicapi.ModelV4_5Plus: "chirp-v4-5-plus",
	musicapi.ModelV5:       "chirp-v5",
}

var modelFromUpstream = func() map[string]musicapi.ModelVersion {
	inverse := make(map[string]musicapi.ModelVersion, len(modelToUpstream))
	for facade, upstream := range modelToUpstream {
		inverse[upstream] = facade
	}
	return inverse
}()

// upstreamModel translates a validated gateway model to the upstream token.
func upstreamModel(m musicapi.ModelVersion) string {
	return modelToUpstream[m]
}

// facadeModel translates an upstream model name back to the gateway token.
// Unknown names fall back to the default model so the upstream vocabulary
// never escapes into responses.
func facadeModel(name string) musicapi.ModelVersion {
	if m, ok := modelFromUpstream[name]; ok {
		return m
	}
	return musicapi.DefaultModel
}

// statusTable normalizes upstream status tokens. It is a superset across
// upstream endpoints; tokens missing here map to generating.
var statusTable = map[string]musicapi.Status{
	"PENDING":               musicapi.StatusSubmitted,
	"TEXT_ONLY":             musicapi.StatusSubmitted,
	"submitted":             musicapi.StatusSubmitted,
	"QUEUED":                musicapi.StatusQueued,
	"TEXT_SUCCESS":          musicapi.StatusQueued,
	"GENERATING":            musicapi.StatusGenerating,
	"FIRST_SUCCESS":         musicapi.StatusGenerating,
	"STREAMING":             musicapi.StatusStreaming,
	"SUCCESS":               musicapi.StatusComplete,
	"complete":              musicapi.StatusComplete,
	"FAILED":                musicapi.StatusError,
	"ERROR":                 musicapi.StatusError,
	"CALLBACK_EXCEPTION":    musicapi.StatusError,
	"CREATE_TASK_FAILED":    musicapi.StatusError,
	"GENERATE_AUDIO_FAILED": musicapi.StatusError,
	"SENSITIVE_WORD_ERROR":  musicapi.StatusError,
}

// mapper shapes upstream records into gateway records and tracks unknown
// status tokens so each distinct token is logged once.
type mapper struct {
	log *zap.Logger
	now func() time.Time

	mu          sync.Mutex
	seenUnknown map[string]struct{}
}

func newMapper(log *zap.Logger) *mapper {
	return &mapper{
		log:         log,
		now:         time.Now,
		seenUnknown: make(map[string]struct{}),
	}
}

// normalizeStatus maps an upstream token to a gateway status. Unknown
// tokens are never terminal.
func (m *mapper) normalizeStatus(token string) musicapi.Status {
	if s, ok := statusTable[token]; ok {
		return s
	}
	m.mu.Lock()
	_, seen := m.seenUnknown[token]
	if !seen {
		m.seenUnknown[token] = struct{}{}
	}
	m.mu.Unlock()
	if !seen {
		m.log.Warn("unknown upstream status token", zap.String("token", token))
	}
	return musicapi.StatusGenerating
}

// shapeTask converts one record-info payload into gateway track records,
// establishing the AudioInfo invariants: media URLs only in streaming or
// complete, completed_at set iff complete, error_message set iff error.
func (m *mapper) shapeTask(data recordInfoData) []musicapi.AudioInfo {
	taskStatus := m.normalizeStatus(data.Status)
	tracks := data.Response.SunoData

	if len(tracks) == 0 {
		// Upstream lag after submit: represent the task as one stub so
		// callers always see at least one record per task.
		return []musicapi.AudioInfo{m.stubTrack(data, taskStatus)}
	}

	infos := make([]musicapi.AudioInfo, 0, len(tracks))
	for _, t := range tracks {
		infos = append(infos, m.shapeTrack(data, taskStatus, t))
	}
	return infos
}

// pendingStub represents a task whose records are not visible yet, right
// after submission.
func (m *mapper) pendingStub(taskID string) []musicapi.AudioInfo {
	return []musicapi.AudioInfo{{
		ID:        taskID,
		ModelName: musicapi.DefaultModel,
		Status:    musicapi.StatusSubmitted,
		CreatedAt: m.now().UTC().Format(time.RFC3339),
	}}
}

func (m *mapper) stubTrack(data recordInfoData, taskStatus musicapi.Status) musicapi.AudioInfo {
	info := musicapi.AudioInfo{
		ID:        data.TaskID,
		ModelName: musicapi.DefaultModel,
		Status:    taskStatus,
		CreatedAt: m.now().UTC().Format(time.RFC3339),
	}
	if taskStatus == musicapi.StatusError {
		msg := data.ErrorMessage
		if msg == "" {
			msg = "generation failed"
		}
		info.ErrorMessage = &msg
	} else if taskStatus.Terminal() || taskStatus == musicapi.StatusStreaming {
		// A terminal or streaming task with no track data is still in
		// flight from the caller's perspective.
		info.Status = musicapi.StatusGenerating
	}
	return info
}

func (m *mapper) shapeTrack(data recordInfoData, taskStatus musicapi.Status, t trackData) musicapi.AudioInfo {
	info := musicapi.AudioInfo{
		ID:        t.ID,
		Title:     t.Title,
		Tags:      t.Tags,
		ModelName: facadeModel(t.ModelName),
		CreatedAt: t.CreateTime,
	}
	if info.ID == "" {
		info.ID = data.TaskID
	}
	if info.CreatedAt == "" {
		info.CreatedAt = m.now().UTC().Format(time.RFC3339)
	}
	if t.Prompt != "" {
		prompt := t.Prompt
		info.Prompt = &prompt
		info.Lyric = t.Prompt
	}
	if data.Type != "" {
		typ := data.Type
		info.Type = &typ
	}
	if t.Duration > 0 {
		d := t.Duration
		info.Duration = &d
	}

	if taskStatus == musicapi.StatusError {
		msg := data.ErrorMessage
		if msg == "" {
			msg = "generation failed"
		}
		info.Status = musicapi.StatusError
		info.ErrorMessage = &msg
		return info
	}

	switch {
	case t.AudioURL != "":
		info.Status = musicapi.StatusComplete
		info.AudioURL = strPtr(t.AudioURL)
		info.StreamAudioURL = optPtr(t.StreamAudioURL)
		info.ImageURL = optPtr(t.ImageURL)
		info.VideoURL = optPtr(t.VideoURL)
		completed := m.now().UTC().Format(time.RFC3339)
		info.CompletedAt = &completed
	case t.StreamAudioURL != "":
		info.Status = musicapi.StatusStreaming
		info.StreamAudioURL = strPtr(t.StreamAudioURL)
		info.ImageURL = optPtr(t.ImageURL)
	default:
		info.Status = taskStatus
		if info.Status.Terminal() {
			// SUCCESS without a final URL: the track is not done yet.
			info.Status = musicapi.StatusGenerating
		}
	}
	return info
}

// shapeStems converts a separation detail payload.
func (m *mapper) shapeStems(taskID string, data separationData) musicapi.StemsRecord {
	rec := musicapi.StemsRecord{
		TaskID: taskID,
		Status: m.normalizeStatus(data.Status),
	}
	if data.TaskID != "" {
		rec.TaskID = data.TaskID
	}
	if rec.Status == musicapi.StatusError {
		msg := data.ErrorMessage
		if msg == "" {
			msg = "separation failed"
		}
		rec.ErrorMessage = &msg
		return rec
	}
	rec.VocalURL = data.Response.VocalURL
	rec.InstrumentalURL = data.Response.InstrumentalURL
	if rec.Status == musicapi.StatusComplete && rec.VocalURL == "" && rec.InstrumentalURL == "" {
		rec.Status = musicapi.StatusGenerating
	}
	return rec
}

// shapeWav converts a WAV conversion detail payload.
func (m *mapper) shapeWav(taskID string, data wavData) musicapi.WavDetails {
	det := musicapi.WavDetails{
		TaskID: taskID,
		Status: m.normalizeStatus(data.Status),
	}
	if data.TaskID != "" {
		det.TaskID = data.TaskID
	}
	if det.Status == musicapi.StatusError {
		msg := data.ErrorMessage
		if msg == "" {
			msg = "conversion failed"
		}
		det.ErrorMessage = &msg
		return det
	}
	det.WavURL = data.Response.AudioWavURL
	if det.Status == musicapi.StatusComplete && det.WavURL == "" {
		det.Status = musicapi.StatusGenerating
	}
	return det
}

// simplePayload shapes a simple generation request for the upstream.
func simplePayload(req musicapi.GenerateRequest) generatePayload {
	return generatePayload{
		Prompt:       req.Prompt,
		CustomMode:   false,
		Instrumental: req.MakeInstrumental,
		Model:        upstreamModel(req.Model),
	}
}

// customPayload shapes a custom generation request; Prompt carries lyrics.
func customPayload(req musicapi.CustomGenerateRequest) generatePayload {
	return generatePayload{
		Prompt:              req.Prompt,
		Style:               req.Tags,
		Title:               req.Title,
		CustomMode:          true,
		Instrumental:        req.MakeInstrumental,
		Model:               upstreamModel(req.Model),
		NegativeTags:        req.NegativeTags,
		VocalGender:         req.VocalGender,
		StyleWeight:         req.StyleWeight,
		WeirdnessConstraint: req.WeirdnessConstraint,
		AudioWeight:         req.AudioWeight,
	}
}

// transformPayload shapes a transform request. Validation has already
// ensured exactly one source is present.
func transformPayload(op TransformOp, req musicapi.TransformRequest) generatePayload {
	p := generatePayload{
		Prompt:              req.Prompt,
		Style:               req.Tags,
		Title:               req.Title,
		CustomMode:          true,
		Model:               upstreamModel(req.Model),
		NegativeTags:        req.NegativeTags,
		VocalGender:         req.VocalGender,
		StyleWeight:         req.StyleWeight,
		WeirdnessConstraint: req.WeirdnessConstraint,
		AudioWeight:         req.AudioWeight,
		TaskID:              req.TaskID,
		AudioID:             req.AudioID,
		UploadURL:           req.UploadURL,
	}
	if op == OpExtend {
		p.ContinueAt = req.ContinueAt
	}
	return p
}

func strPtr(s string) *string {
	return &s
}

func optPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
