package suno

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/tunebridge/suno-gateway/pkg/metrics"
	"github.com/tunebridge/suno-gateway/pkg/musicapi"
)

// maxErrorBody bounds how much of an upstream failure body is read.
const maxErrorBody = 1 << 20

// Client issues requests against the upstream provider. It is safe for
// concurrent use; one instance is shared across all requests. Credentials
// are passed per call and never stored.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	metrics    *metrics.Metrics
	mapper     *mapper
}

// NewClient creates an upstream client with a fixed per-call deadline.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:     log,
		metrics: m,
		mapper:  newMapper(log),
	}
}

// call performs one upstream request and decodes the envelope data into out.
// It never retries; retry policy belongs to the coordinator.
func (c *Client) call(ctx context.Context, credential, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return musicapi.WrapError(musicapi.KindInternal, "encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return musicapi.WrapError(musicapi.KindInternal, "create upstream request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+credential)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	tracer := otel.Tracer("suno")
	spanCtx, span := tracer.Start(ctx, "suno.call")
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("suno.path", path),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq.WithContext(spanCtx))
	duration := time.Since(start)
	if err != nil {
		kind := musicapi.KindTransport
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			kind = musicapi.KindTimeout
		}
		typed := musicapi.WrapError(kind, "upstream request failed", err)
		c.observe(path, duration, typed)
		return typed
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		typed := musicapi.WrapError(musicapi.KindTransport, "read upstream response", err)
		c.observe(path, duration, typed)
		return typed
	}

	if typed := classifyHTTP(resp, payload); typed != nil {
		c.observe(path, duration, typed)
		return typed
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		typed := musicapi.WrapError(musicapi.KindTransport, "parse upstream envelope", err)
		c.observe(path, duration, typed)
		return typed
	}

	if env.Code != 200 {
		typed := classifyEnvelope(env)
		c.observe(path, duration, typed)
		return typed
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			typed := musicapi.WrapError(musicapi.KindTransport, "decode upstream data", err)
			c.observe(path, duration, typed)
			return typed
		}
	}

	c.observe(path, duration, nil)
	return nil
}

// observe records one structured log line and the upstream metrics for a
// finished call. The credential never reaches this function.
func (c *Client) observe(path string, duration time.Duration, typed *musicapi.Error) {
	outcome := "ok"
	if typed != nil {
		outcome = string(typed.Kind)
		c.log.Error("upstream call failed",
			zap.String("upstream_path", path),
			zap.Duration("duration", duration),
			zap.String("error_kind", string(typed.Kind)),
			zap.String("message", typed.Message),
		)
	}
	c.metrics.UpstreamTotal.WithLabelValues(path, outcome).Inc()
	c.metrics.UpstreamDuration.WithLabelValues(path).Observe(duration.Seconds())
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

// classifyHTTP maps non-success HTTP statuses to typed errors before the
// envelope is even parsed.
func classifyHTTP(resp *http.Response, payload []byte) *musicapi.Error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return musicapi.NewError(musicapi.KindAuth, "upstream rejected the credential")
	case resp.StatusCode == http.StatusPaymentRequired:
		return musicapi.NewError(musicapi.KindCredit, "insufficient credits")
	case resp.StatusCode == http.StatusNotFound:
		return musicapi.NewError(musicapi.KindNotFound, "upstream resource not found")
	case resp.StatusCode == http.StatusTooManyRequests:
		e := musicapi.NewError(musicapi.KindRateLimit, "upstream rate limit exceeded")
		if after := resp.Header.Get("Retry-After"); after != "" {
			if sec, err := strconv.Atoi(after); err == nil && sec > 0 {
				e.RetryAfterSec = sec
			}
		}
		return e
	case resp.StatusCode >= 400:
		e := musicapi.NewError(musicapi.KindUpstream, trimmedMessage(payload))
		e.Code = resp.StatusCode
		return e
	}
	return nil
}

// classifyEnvelope maps a non-success envelope code to a typed error.
func classifyEnvelope(env envelope) *musicapi.Error {
	msg := strings.ToLower(env.Msg)
	var e *musicapi.Error
	switch {
	case env.Code == 401 || env.Code == 403:
		e = musicapi.NewError(musicapi.KindAuth, "upstream rejected the credential")
	case env.Code == 402 || strings.Contains(msg, "insufficient credits") ||
		(env.Code >= 500 && strings.Contains(msg, "credit")):
		e = musicapi.NewError(musicapi.KindCredit, "insufficient credits")
	case env.Code == 404:
		e = musicapi.NewError(musicapi.KindNotFound, "upstream resource not found")
	case env.Code == 429 || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") || strings.Contains(msg, "call frequency"):
		e = musicapi.NewError(musicapi.KindRateLimit, "upstream rate limit exceeded")
	default:
		e = musicapi.NewError(musicapi.KindUpstream, env.Msg)
	}
	e.Code = env.Code
	return e
}

func trimmedMessage(payload []byte) string {
	msg := strings.TrimSpace(string(payload))
	if msg == "" {
		return "upstream returned an error"
	}
	if len(msg) > 256 {
		msg = msg[:256]
	}
	return msg
}

// SubmitGenerate submits a simple generation and returns the task id.
func (c *Client) SubmitGenerate(ctx context.Context, credential string, req musicapi.GenerateRequest) (string, error) {
	return c.submit(ctx, credential, pathGenerate, simplePayload(req))
}

// SubmitCustomGenerate submits a custom (lyrics + style) generation.
func (c *Client) SubmitCustomGenerate(ctx context.Context, credential string, req musicapi.CustomGenerateRequest) (string, error) {
	return c.submit(ctx, credential, pathGenerate, customPayload(req))
}

// SubmitTransform submits one of the transform operations (extend, cover,
// upload-cover, add-vocals, add-instrumental).
func (c *Client) SubmitTransform(ctx context.Context, credential string, op TransformOp, req musicapi.TransformRequest) (string, error) {
	path, err := op.path()
	if err != nil {
		return "", err
	}
	return c.submit(ctx, credential, path, transformPayload(op, req))
}

func (c *Client) submit(ctx context.Context, credential, path string, payload generatePayload) (string, error) {
	var data submitData
	if err := c.call(ctx, credential, http.MethodPost, path, nil, payload, &data); err != nil {
		return "", err
	}
	if data.TaskID == "" {
		return "", musicapi.NewError(musicapi.KindUpstream, "upstream accepted the task but returned no task id")
	}
	return data.TaskID, nil
}

// FetchTask returns the shaped track records of one task.
func (c *Client) FetchTask(ctx context.Context, credential, taskID string) ([]musicapi.AudioInfo, error) {
	query := url.Values{"taskId": {taskID}}
	var data recordInfoData
	if err := c.call(ctx, credential, http.MethodGet, pathRecordInfo, query, nil, &data); err != nil {
		return nil, err
	}
	return c.mapper.shapeTask(data), nil
}

// FetchTasks fetches several tasks sequentially and concatenates their
// records in input order.
func (c *Client) FetchTasks(ctx context.Context, credential string, taskIDs []string) ([]musicapi.AudioInfo, error) {
	var out []musicapi.AudioInfo
	for _, id := range taskIDs {
		infos, err := c.FetchTask(ctx, credential, id)
		if err != nil {
			return nil, err
		}
		out = append(out, infos...)
	}
	return out, nil
}

// GenerateLyrics runs the standalone lyrics operation. It is a single call;
// the lyrics endpoint answers synchronously.
func (c *Client) GenerateLyrics(ctx context.Context, credential, prompt string) (musicapi.LyricsResult, error) {
	var data lyricsData
	body := map[string]string{"prompt": prompt}
	if err := c.call(ctx, credential, http.MethodPost, pathLyrics, nil, body, &data); err != nil {
		return musicapi.LyricsResult{}, err
	}
	return musicapi.LyricsResult{Text: data.Text, Title: data.Title}, nil
}

// GetCredits reports the remaining quota of the active credential.
func (c *Client) GetCredits(ctx context.Context, credential string) (musicapi.Credits, error) {
	var data creditData
	if err := c.call(ctx, credential, http.MethodGet, pathCredit, nil, nil, &data); err != nil {
		return musicapi.Credits{}, err
	}
	return musicapi.Credits{CreditsLeft: data.Credits, TotalCredits: data.TotalCredits}, nil
}

// SubmitStems submits a vocal/instrumental separation task.
func (c *Client) SubmitStems(ctx context.Context, credential string, req musicapi.StemsRequest) (string, error) {
	var data submitData
	body := taskRef{TaskID: req.TaskID, AudioID: req.AudioID}
	if err := c.call(ctx, credential, http.MethodPost, pathVocalRemoval, nil, body, &data); err != nil {
		return "", err
	}
	if data.TaskID == "" {
		return "", musicapi.NewError(musicapi.KindUpstream, "upstream accepted the separation but returned no task id")
	}
	return data.TaskID, nil
}

// FetchStems returns the current state of a separation task.
func (c *Client) FetchStems(ctx context.Context, credential, taskID string) (musicapi.StemsRecord, error) {
	query := url.Values{"taskId": {taskID}}
	var data separationData
	if err := c.call(ctx, credential, http.MethodGet, pathVocalRemovalInfo, query, nil, &data); err != nil {
		return musicapi.StemsRecord{}, err
	}
	return c.mapper.shapeStems(taskID, data), nil
}

// SubmitWav submits a WAV conversion task.
func (c *Client) SubmitWav(ctx context.Context, credential string, req musicapi.WavRequest) (string, error) {
	var data submitData
	body := taskRef{TaskID: req.TaskID, AudioID: req.AudioID}
	if err := c.call(ctx, credential, http.MethodPost, pathWavConvert, nil, body, &data); err != nil {
		return "", err
	}
	if data.TaskID == "" {
		return "", musicapi.NewError(musicapi.KindUpstream, "upstream accepted the conversion but returned no task id")
	}
	return data.TaskID, nil
}

// FetchWav returns the current state of a WAV conversion task.
func (c *Client) FetchWav(ctx context.Context, credential, taskID string) (musicapi.WavDetails, error) {
	query := url.Values{"taskId": {taskID}}
	var data wavData
	if err := c.call(ctx, credential, http.MethodGet, pathWavInfo, query, nil, &data); err != nil {
		return musicapi.WavDetails{}, err
	}
	return c.mapper.shapeWav(taskID, data), nil
}

// AlignedLyrics returns word-level timestamps for one track.
func (c *Client) AlignedLyrics(ctx context.Context, credential, taskID, audioID string) ([]musicapi.AlignedWord, error) {
	body := taskRef{TaskID: taskID, AudioID: audioID}
	var data alignedLyricsData
	if err := c.call(ctx, credential, http.MethodPost, pathAlignedLyrics, nil, body, &data); err != nil {
		return nil, err
	}
	words := make([]musicapi.AlignedWord, 0, len(data.AlignedWords))
	for _, w := range data.AlignedWords {
		words = append(words, musicapi.AlignedWord{
			Word:    w.Word,
			Success: w.Success,
			StartS:  w.StartS,
			EndS:    w.EndS,
			PAlign:  w.PAlign,
		})
	}
	return words, nil
}
