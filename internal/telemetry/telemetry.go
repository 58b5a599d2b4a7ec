// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package telemetry tracks in-flight pipeline runs and emits structured
// logs for stage transitions and provider calls. Implements:
// prd009-telemetry (R1-R3).
package telemetry

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExecutionMetrics accumulates counters for one pipeline run.
type ExecutionMetrics struct {
	RequestID      string
	Topic          string
	StartTime      time.Time
	StagesRun      int
	StagesFailed   int
	ProviderCalls  int
	TokensConsumed int
}

// Tracker records run metrics keyed by request ID. Runs are inserted on
// start and removed on finish; Active reports what is currently in
// flight. Safe for concurrent use.
type Tracker struct {
	log *zap.Logger

	mu   sync.Mutex
	runs map[string]*ExecutionMetrics
}

// New returns a Tracker logging through the given logger. A nil logger
// disables log output but keeps metrics accounting.
func New(log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		log:  log,
		runs: make(map[string]*ExecutionMetrics),
	}
}

// StartRun registers a run as in flight.
func (t *Tracker) StartRun(requestID, topic string) {
	t.mu.Lock()
	t.runs[requestID] = &ExecutionMetrics{
		RequestID: requestID,
		Topic:     topic,
		StartTime: time.Now(),
	}
	t.mu.Unlock()

	t.log.Info("run started",
		zap.String("request_id", requestID),
		zap.String("topic", topic),
	)
}

// StageCompleted records one finished stage for the run.
func (t *Tracker) StageCompleted(requestID, stage string, failed bool, d time.Duration) {
	t.mu.Lock()
	if m, ok := t.runs[requestID]; ok {
		m.StagesRun++
		if failed {
			m.StagesFailed++
		}
	}
	t.mu.Unlock()

	if failed {
		t.log.Warn("stage failed",
			zap.String("request_id", requestID),
			zap.String("stage", stage),
			zap.Duration("duration", d),
		)
		return
	}
	t.log.Info("stage completed",
		zap.String("request_id", requestID),
		zap.String("stage", stage),
		zap.Duration("duration", d),
	)
}

// ProviderCall records one model-provider invocation and its token cost.
func (t *Tracker) ProviderCall(requestID, provider string, tokens int) {
	t.mu.Lock()
	if m, ok := t.runs[requestID]; ok {
		m.ProviderCalls++
		m.TokensConsumed += tokens
	}
	t.mu.Unlock()

	t.log.Debug("provider call",
		zap.String("request_id", requestID),
		zap.String("provider", provider),
		zap.Int("tokens", tokens),
	)
}

// FinishRun removes the run and returns its final metrics. The second
// return value is false for an unknown request ID.
func (t *Tracker) FinishRun(requestID string) (ExecutionMetrics, bool) {
	t.mu.Lock()
	m, ok := t.runs[requestID]
	if ok {
		delete(t.runs, requestID)
	}
	t.mu.Unlock()

	if !ok {
		return ExecutionMetrics{}, false
	}

	t.log.Info("run finished",
		zap.String("request_id", requestID),
		zap.Int("stages_run", m.StagesRun),
		zap.Int("stages_failed", m.StagesFailed),
		zap.Int("provider_calls", m.ProviderCalls),
		zap.Int("tokens", m.TokensConsumed),
		zap.Duration("elapsed", time.Since(m.StartTime)),
	)
	return *m, true
}

// Active returns the number of runs currently in flight.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.runs)
}
