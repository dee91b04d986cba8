// Package musicapi defines the external vocabulary of the gateway: model
// versions, track statuses, request records, and the AudioInfo track record
// returned by every generation endpoint. Upstream wire shapes never appear
// here; translation happens in pkg/suno.
package musicapi

// ModelVersion enumerates the generation models exposed by the gateway.
type ModelVersion string

const (
	// ModelV3_5 is the baseline model, up to 4 minutes of audio.
	ModelV3_5 ModelVersion = "V3_5"
	// ModelV4 improves vocal quality, up to 4 minutes of audio.
	ModelV4 ModelVersion = "V4"
	// ModelV4_5 adds richer genre blending, up to 8 minutes of audio.
	ModelV4_5 ModelVersion = "V4_5"
	// ModelV4_5Plus extends V4_5 with fuller vocals and extra source modes.
	ModelV4_5Plus ModelVersion = "V4_5PLUS"
	// ModelV5 is the latest model with the fastest generation.
	ModelV5 ModelVersion = "V5"
)

// DefaultModel is used whenever a request omits the model field.
const DefaultModel = ModelV3_5

// allModels is the closed set; validation rejects anything else.
var allModels = map[ModelVersion]bool{
	ModelV3_5:     true,
	ModelV4:       true,
	ModelV4_5:     true,
	ModelV4_5Plus: true,
	ModelV5:       true,
}

// Valid reports whether m belongs to the closed model set.
func (m ModelVersion) Valid() bool {
	return allModels[m]
}

// MaxDurationMinutes returns the advisory duration cap for the model. The
// upstream is the authority; the gateway never enforces this.
func (m ModelVersion) MaxDurationMinutes() int {
	switch m {
	case ModelV4_5, ModelV4_5Plus, ModelV5:
		return 8
	default:
		return 4
	}
}

// SupportsExtendedFeatures reports whether the model accepts the extended
// style controls (negative tags, vocal gender, weights).
func (m ModelVersion) SupportsExtendedFeatures() bool {
	switch m {
	case ModelV4_5, ModelV4_5Plus, ModelV5:
		return true
	default:
		return false
	}
}

// Status enumerates the lifecycle states of a generated track.
type Status string

const (
	// StatusSubmitted means the upstream accepted the task but has not
	// queued it yet.
	StatusSubmitted Status = "submitted"
	// StatusQueued means the task is waiting for a generation slot.
	StatusQueued Status = "queued"
	// StatusGenerating means audio synthesis is in progress.
	StatusGenerating Status = "generating"
	// StatusStreaming means a partial stream URL exists but the final file
	// does not yet.
	StatusStreaming Status = "streaming"
	// StatusComplete is the terminal success state.
	StatusComplete Status = "complete"
	// StatusError is the terminal failure state.
	StatusError Status = "error"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// rank orders statuses along the track state machine; used for the
// lattice-join over a task's tracks.
func (s Status) rank() int {
	switch s {
	case StatusSubmitted:
		return 0
	case StatusQueued:
		return 1
	case StatusGenerating:
		return 2
	case StatusStreaming:
		return 3
	case StatusComplete:
		return 4
	default:
		return 2
	}
}

// JoinStatus folds per-track statuses into a task-level status: any error
// wins, otherwise the least-advanced track determines the join.
func JoinStatus(infos []AudioInfo) Status {
	if len(infos) == 0 {
		return StatusSubmitted
	}
	joined := StatusComplete
	for _, info := range infos {
		if info.Status == StatusError {
			return StatusError
		}
		if info.Status.rank() < joined.rank() {
			joined = info.Status
		}
	}
	return joined
}

// AudioInfo is the unified track record returned by every generation
// endpoint. Media URLs are nil until the track reaches streaming or
// complete; ErrorMessage is set iff Status is error.
type AudioInfo struct {
	ID                   string       `json:"id"`
	Title                string       `json:"title"`
	Tags                 string       `json:"tags"`
	Lyric                string       `json:"lyric"`
	AudioURL             *string      `json:"audio_url"`
	VideoURL             *string      `json:"video_url"`
	ImageURL             *string      `json:"image_url"`
	StreamAudioURL       *string      `json:"stream_audio_url"`
	ModelName            ModelVersion `json:"model_name"`
	Status               Status       `json:"status"`
	CreatedAt            string       `json:"created_at"`
	CompletedAt          *string      `json:"completed_at,omitempty"`
	Duration             *float64     `json:"duration,omitempty"`
	Prompt               *string      `json:"prompt,omitempty"`
	GPTDescriptionPrompt *string      `json:"gpt_description_prompt,omitempty"`
	Type                 *string      `json:"type,omitempty"`
	Stems                *Stems       `json:"stems,omitempty"`
	ErrorMessage         *string      `json:"error_message,omitempty"`
}

// Stems carries separated-track URLs attached to an AudioInfo.
type Stems struct {
	VocalURL        string `json:"vocal_url,omitempty"`
	InstrumentalURL string `json:"instrumental_url,omitempty"`
	Format          string `json:"format,omitempty"`
}

// GenerateRequest is the body of the simple generation endpoint.
type GenerateRequest struct {
	Prompt           string       `json:"prompt"`
	MakeInstrumental bool         `json:"make_instrumental"`
	Model            ModelVersion `json:"model,omitempty"`
	WaitAudio        bool         `json:"wait_audio"`
	// StreamEarly returns as soon as every track has at least a stream URL.
	StreamEarly bool `json:"stream_early,omitempty"`
}

// CustomGenerateRequest is the body of the custom generation endpoint;
// Prompt carries lyrics.
type CustomGenerateRequest struct {
	Prompt              string       `json:"prompt"`
	Tags                string       `json:"tags"`
	Title               string       `json:"title"`
	MakeInstrumental    bool         `json:"make_instrumental"`
	Model               ModelVersion `json:"model,omitempty"`
	WaitAudio           bool         `json:"wait_audio"`
	StreamEarly         bool         `json:"stream_early,omitempty"`
	NegativeTags        string       `json:"negative_tags,omitempty"`
	VocalGender         string       `json:"vocal_gender,omitempty"`
	StyleWeight         *float64     `json:"style_weight,omitempty"`
	WeirdnessConstraint *float64     `json:"weirdness_constraint,omitempty"`
	AudioWeight         *float64     `json:"audio_weight,omitempty"`
}

// TransformRequest is shared by extend, cover, upload-cover, add-vocals and
// add-instrumental. Exactly one of (TaskID, AudioID) or UploadURL must be
// supplied.
type TransformRequest struct {
	TaskID              string       `json:"task_id,omitempty"`
	AudioID             string       `json:"audio_id,omitempty"`
	UploadURL           string       `json:"upload_url,omitempty"`
	Prompt              string       `json:"prompt,omitempty"`
	Tags                string       `json:"tags,omitempty"`
	Title               string       `json:"title,omitempty"`
	ContinueAt          *float64     `json:"continue_at,omitempty"`
	Model               ModelVersion `json:"model,omitempty"`
	WaitAudio           bool         `json:"wait_audio"`
	StreamEarly         bool         `json:"stream_early,omitempty"`
	NegativeTags        string       `json:"negative_tags,omitempty"`
	VocalGender         string       `json:"vocal_gender,omitempty"`
	StyleWeight         *float64     `json:"style_weight,omitempty"`
	WeirdnessConstraint *float64     `json:"weirdness_constraint,omitempty"`
	AudioWeight         *float64     `json:"audio_weight,omitempty"`
}

// LyricsRequest asks for standalone lyrics generation.
type LyricsRequest struct {
	Prompt string `json:"prompt"`
}

// LyricsResult is the shaped lyrics response.
type LyricsResult struct {
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
}

// StemsRequest submits a vocal/instrumental separation for one track.
type StemsRequest struct {
	TaskID  string `json:"task_id"`
	AudioID string `json:"audio_id"`
}

// StemsRecord is the status of a separation task.
type StemsRecord struct {
	TaskID          string  `json:"task_id"`
	Status          Status  `json:"status"`
	VocalURL        string  `json:"vocal_url,omitempty"`
	InstrumentalURL string  `json:"instrumental_url,omitempty"`
	ErrorMessage    *string `json:"error_message,omitempty"`
}

// WavRequest submits a WAV conversion for one track.
type WavRequest struct {
	TaskID  string `json:"task_id"`
	AudioID string `json:"audio_id"`
}

// WavDetails is the status of a WAV conversion task.
type WavDetails struct {
	TaskID       string  `json:"task_id"`
	Status       Status  `json:"status"`
	WavURL       string  `json:"wav_url,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

// Credits reports the remaining upstream quota.
type Credits struct {
	CreditsLeft  float64  `json:"credits_left"`
	TotalCredits *float64 `json:"total_credits,omitempty"`
}

// AlignedWord is one entry of the timestamped-lyrics response.
type AlignedWord struct {
	Word    string  `json:"word"`
	Success bool    `json:"success"`
	StartS  float64 `json:"start_s"`
	EndS    float64 `json:"end_s"`
	PAlign  float64 `json:"p_align"`
}

// Submission is the immediate result of a generation submit: the upstream
// task id plus whatever stub records were available at submission time.
type Submission struct {
	TaskID string      `json:"task_id"`
	Tracks []AudioInfo `json:"tracks"`
}

// MaxBatchIDs caps the number of ids accepted by batch lookups.
const MaxBatchIDs = 50
