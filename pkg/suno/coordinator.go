package suno

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tunebridge/suno-gateway/pkg/metrics"
	"github.com/tunebridge/suno-gateway/pkg/musicapi"
)

// Backoff bounds for transient upstream failures during a wait.
const (
	backoffInitial = 1 * time.Second
	backoffFactor  = 2
	backoffMax     = 30 * time.Second
	// pollFloor is the minimum polling cadence; smaller intervals are
	// clamped up.
	pollFloor = 3 * time.Second
)

// Coordinator owns the generation lifecycle for synchronous waits. It holds
// no cross-request state; every wait runs on its caller's goroutine and
// dies with it.
type Coordinator struct {
	client       *Client
	log          *zap.Logger
	metrics      *metrics.Metrics
	pollInterval time.Duration
	waitBudget   time.Duration
}

// NewCoordinator builds a coordinator with process-default budgets.
func NewCoordinator(client *Client, log *zap.Logger, m *metrics.Metrics, pollInterval, waitBudget time.Duration) *Coordinator {
	if pollInterval < pollFloor {
		pollInterval = pollFloor
	}
	return &Coordinator{
		client:       client,
		log:          log,
		metrics:      m,
		pollInterval: pollInterval,
		waitBudget:   waitBudget,
	}
}

// WaitOptions tunes one wait; zero values fall back to process defaults.
type WaitOptions struct {
	Budget       time.Duration
	PollInterval time.Duration
	// ReturnOnStream returns as soon as any track has a stream URL instead
	// of waiting for the final files.
	ReturnOnStream bool
}

func (co *Coordinator) resolve(opts WaitOptions) (time.Duration, time.Duration) {
	budget := opts.Budget
	if budget <= 0 {
		budget = co.waitBudget
	}
	// Caller-supplied intervals are clamped; the process default was
	// already clamped at construction.
	interval := opts.PollInterval
	if interval > 0 && interval < pollFloor {
		interval = pollFloor
	}
	if interval <= 0 {
		interval = co.pollInterval
	}
	return budget, interval
}

// InitialRecords returns the current records of a freshly submitted task
// for the asynchronous path. Upstream lag right after submit is expected;
// it degrades to a pending stub rather than failing the submission.
func (co *Coordinator) InitialRecords(ctx context.Context, credential, taskID string) []musicapi.AudioInfo {
	records, err := co.client.FetchTask(ctx, credential, taskID)
	if err == nil && len(records) > 0 {
		return records
	}
	if err != nil {
		co.log.Debug("initial record fetch failed, returning stub",
			zap.String("task_id", taskID), zap.Error(err))
	}
	return co.client.mapper.pendingStub(taskID)
}

// WaitForAudio polls the task until every track reaches a terminal state,
// the caller opted into an early stream return, or the budget expires.
// Transient upstream failures are retried with exponential backoff and
// jitter; fatal errors abort immediately.
func (co *Coordinator) WaitForAudio(ctx context.Context, credential, taskID string, opts WaitOptions) ([]musicapi.AudioInfo, error) {
	budget, interval := co.resolve(opts)
	deadline := time.Now().Add(budget)
	backoff := backoffInitial

	var last []musicapi.AudioInfo
	for {
		if err := ctx.Err(); err != nil {
			return last, co.contextError(err, taskID, last)
		}

		co.metrics.PollIterations.Inc()
		records, err := co.client.FetchTask(ctx, credential, taskID)
		if err != nil {
			typed := musicapi.AsError(err)
			if musicapi.Fatal(typed) || !retryable(typed) {
				typed.TaskID = taskID
				return last, typed
			}
			wait := withJitter(backoff)
			if retryAfter := time.Duration(typed.RetryAfterSec) * time.Second; retryAfter > wait {
				wait = retryAfter
			}
			if backoff *= backoffFactor; backoff > backoffMax {
				backoff = backoffMax
			}
			if !co.sleep(ctx, wait, deadline) {
				return last, co.timeoutError(ctx, taskID, last)
			}
			continue
		}
		backoff = backoffInitial
		last = records

		joined := musicapi.JoinStatus(records)
		switch {
		case joined == musicapi.StatusError:
			return records, co.generationError(taskID, records)
		case joined == musicapi.StatusComplete:
			return records, nil
		case opts.ReturnOnStream && anyStreaming(records):
			return records, nil
		}

		if !co.sleep(ctx, interval, deadline) {
			return last, co.timeoutError(ctx, taskID, last)
		}
	}
}

// WaitForStems polls a separation task with the same protocol as
// WaitForAudio and returns the stems record.
func (co *Coordinator) WaitForStems(ctx context.Context, credential, taskID string, opts WaitOptions) (musicapi.StemsRecord, error) {
	budget, interval := co.resolve(opts)
	deadline := time.Now().Add(budget)
	backoff := backoffInitial

	var last musicapi.StemsRecord
	for {
		if err := ctx.Err(); err != nil {
			return last, co.contextError(err, taskID, last)
		}

		co.metrics.PollIterations.Inc()
		record, err := co.client.FetchStems(ctx, credential, taskID)
		if err != nil {
			typed := musicapi.AsError(err)
			if musicapi.Fatal(typed) || !retryable(typed) {
				typed.TaskID = taskID
				return last, typed
			}
			wait := withJitter(backoff)
			if retryAfter := time.Duration(typed.RetryAfterSec) * time.Second; retryAfter > wait {
				wait = retryAfter
			}
			if backoff *= backoffFactor; backoff > backoffMax {
				backoff = backoffMax
			}
			if !co.sleep(ctx, wait, deadline) {
				return last, co.timeoutError(ctx, taskID, last)
			}
			continue
		}
		backoff = backoffInitial
		last = record

		switch record.Status {
		case musicapi.StatusError:
			msg := "separation failed"
			if record.ErrorMessage != nil {
				msg = *record.ErrorMessage
			}
			e := musicapi.NewError(musicapi.KindGeneration, msg)
			e.TaskID = taskID
			co.logWaitFailure(taskID, e)
			return record, e
		case musicapi.StatusComplete:
			return record, nil
		}

		if !co.sleep(ctx, interval, deadline) {
			return last, co.timeoutError(ctx, taskID, last)
		}
	}
}

// sleep pauses for d, bounded by the wait deadline and the caller's
// context. It reports false when the deadline is exhausted.
func (co *Coordinator) sleep(ctx context.Context, d time.Duration, deadline time.Time) bool {
	remaining := time.Until(deadline)
	if remaining <= 0 || d > remaining {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (co *Coordinator) contextError(err error, taskID string, details any) *musicapi.Error {
	if err == context.DeadlineExceeded {
		return co.timeoutTyped(taskID, details)
	}
	e := musicapi.WrapError(musicapi.KindInternal, "request cancelled", err)
	e.TaskID = taskID
	return e
}

func (co *Coordinator) timeoutError(ctx context.Context, taskID string, details any) *musicapi.Error {
	if err := ctx.Err(); err != nil && err != context.DeadlineExceeded {
		return co.contextError(err, taskID, details)
	}
	return co.timeoutTyped(taskID, details)
}

func (co *Coordinator) timeoutTyped(taskID string, details any) *musicapi.Error {
	e := musicapi.NewError(musicapi.KindTimeout, "wait for audio exceeded its deadline")
	e.TaskID = taskID
	e.Details = details
	co.logWaitFailure(taskID, e)
	return e
}

// generationError reports the first errored track, ordered by id for
// determinism, and attaches every record so callers can salvage the
// successful tracks.
func (co *Coordinator) generationError(taskID string, records []musicapi.AudioInfo) *musicapi.Error {
	failed := make([]musicapi.AudioInfo, 0, len(records))
	for _, r := range records {
		if r.Status == musicapi.StatusError {
			failed = append(failed, r)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].ID < failed[j].ID })

	msg := "generation failed"
	if len(failed) > 0 && failed[0].ErrorMessage != nil {
		msg = *failed[0].ErrorMessage
	}
	e := musicapi.NewError(musicapi.KindGeneration, msg)
	e.TaskID = taskID
	e.Details = records
	co.logWaitFailure(taskID, e)
	return e
}

func (co *Coordinator) logWaitFailure(taskID string, e *musicapi.Error) {
	co.log.Error("wait for audio failed",
		zap.String("operation", "wait_for_audio"),
		zap.String("task_id", taskID),
		zap.String("error_kind", string(e.Kind)),
		zap.String("message", e.Message),
	)
}

// retryable reports whether a fetch failure may be retried in place:
// transport faults, per-call timeouts, rate limits, and 5xx upstream codes.
func retryable(e *musicapi.Error) bool {
	switch e.Kind {
	case musicapi.KindTransport, musicapi.KindTimeout, musicapi.KindRateLimit:
		return true
	case musicapi.KindUpstream:
		return e.Code >= 500
	default:
		return false
	}
}

func anyStreaming(records []musicapi.AudioInfo) bool {
	for _, r := range records {
		if r.Status == musicapi.StatusStreaming || r.Status == musicapi.StatusComplete {
			return true
		}
	}
	return false
}

// withJitter adds 0-20% random jitter to a backoff step.
func withJitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Int63n(int64(d)/5+1))
}
