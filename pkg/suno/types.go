// Package suno adapts the upstream SunoAPI.org provider: a typed HTTP
// transport, the vocabulary mapping between gateway and upstream
// representations, and the task polling coordinator. Upstream paths, status
// tokens and envelope fields appear only in this package.
package suno

import "encoding/json"

// Upstream API paths. Each path appears exactly once.
const (
	pathGenerate         = "/api/v1/generate"
	pathExtend           = "/api/v1/generate/extend"
	pathCover            = "/api/v1/generate/cover"
	pathUploadCover      = "/api/v1/generate/upload-cover"
	pathAddVocals        = "/api/v1/generate/add-vocals"
	pathAddInstrumental  = "/api/v1/generate/add-instrumental"
	pathRecordInfo       = "/api/v1/generate/record-info"
	pathCredit           = "/api/v1/generate/credit"
	pathAlignedLyrics    = "/api/v1/generate/get-timestamped-lyrics"
	pathLyrics           = "/api/v1/lyrics"
	pathVocalRemoval     = "/api/v1/vocal-removal/generate"
	pathVocalRemovalInfo = "/api/v1/vocal-removal/record-info"
	pathWavConvert       = "/api/v1/wav/generate"
	pathWavInfo          = "/api/v1/wav/record-info"
)

// envelope is the wrapper around every upstream JSON response.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// generatePayload is the upstream body shared by generation and transform
// submissions; unused fields are omitted per operation.
type generatePayload struct {
	Prompt              string   `json:"prompt,omitempty"`
	Style               string   `json:"style,omitempty"`
	Title               string   `json:"title,omitempty"`
	CustomMode          bool     `json:"customMode"`
	Instrumental        bool     `json:"instrumental"`
	Model               string   `json:"model"`
	NegativeTags        string   `json:"negativeTags,omitempty"`
	VocalGender         string   `json:"vocalGender,omitempty"`
	StyleWeight         *float64 `json:"styleWeight,omitempty"`
	WeirdnessConstraint *float64 `json:"weirdnessConstraint,omitempty"`
	AudioWeight         *float64 `json:"audioWeight,omitempty"`
	TaskID              string   `json:"taskId,omitempty"`
	AudioID             string   `json:"audioId,omitempty"`
	UploadURL           string   `json:"uploadUrl,omitempty"`
	ContinueAt          *float64 `json:"continueAt,omitempty"`
	CallBackURL         *string  `json:"callBackUrl"`
}

// taskRef is the upstream body for operations keyed by an existing track.
type taskRef struct {
	TaskID  string `json:"taskId"`
	AudioID string `json:"audioId,omitempty"`
}

// submitData is the envelope data of every submission endpoint.
type submitData struct {
	TaskID string `json:"taskId"`
}

// trackData is one generated track inside a record-info response.
type trackData struct {
	ID             string  `json:"id"`
	AudioURL       string  `json:"audioUrl"`
	StreamAudioURL string  `json:"streamAudioUrl"`
	ImageURL       string  `json:"imageUrl"`
	VideoURL       string  `json:"videoUrl"`
	Prompt         string  `json:"prompt"`
	ModelName      string  `json:"modelName"`
	Title          string  `json:"title"`
	Tags           string  `json:"tags"`
	CreateTime     string  `json:"createTime"`
	Duration       float64 `json:"duration"`
}

// recordInfoData is the envelope data of the generation detail endpoint.
type recordInfoData struct {
	TaskID       string `json:"taskId"`
	Status       string `json:"status"`
	Type         string `json:"type"`
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	Response     struct {
		TaskID   string      `json:"taskId"`
		SunoData []trackData `json:"sunoData"`
	} `json:"response"`
}

// lyricsData is the envelope data of the lyrics endpoint.
type lyricsData struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

// creditData is the envelope data of the credit endpoint.
type creditData struct {
	Credits      float64  `json:"credits"`
	TotalCredits *float64 `json:"totalCredits"`
}

// separationData is the envelope data of the vocal-removal detail endpoint.
type separationData struct {
	TaskID       string `json:"taskId"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
	Response     struct {
		VocalURL        string `json:"vocalUrl"`
		InstrumentalURL string `json:"instrumentalUrl"`
	} `json:"response"`
}

// wavData is the envelope data of the WAV detail endpoint.
type wavData struct {
	TaskID       string `json:"taskId"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
	Response     struct {
		AudioWavURL string `json:"audioWavUrl"`
	} `json:"response"`
}

// alignedWordData is one entry of the timestamped-lyrics response.
type alignedWordData struct {
	Word    string  `json:"word"`
	Success bool    `json:"success"`
	StartS  float64 `json:"startS"`
	EndS    float64 `json:"endS"`
	PAlign  float64 `json:"palign"`
}

// alignedLyricsData is the envelope data of the timestamped-lyrics endpoint.
type alignedLyricsData struct {
	AlignedWords []alignedWordData `json:"alignedWords"`
}
