// Package tracking decides which OCR samples count and keeps the current EXP
// value and history.
package tracking

import (
	"log/slog"
	"sync"

	"github.com/osse101/ExpTracker_Go/internal/debuglog"
	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/history"
)

// Options configure an Engine.
type Options struct {
	// History receives accepted readings. A fresh one is created when nil.
	History *history.History
	// DebugCapacity bounds the sample debug log.
	DebugCapacity int
	Logger        *slog.Logger
}

// Engine is the only writer of current EXP and history. It is safe for
// concurrent use, though the scheduler feeds it one sample at a time.
type Engine struct {
	mu            sync.RWMutex
	minConfidence float64
	current       *int64
	pending       *int64
	segment       int
	history       *history.History
	samples       *debuglog.Log[domain.SampleDecision]
	log           *slog.Logger
}

// NewEngine creates an engine rejecting readings below minConfidence (0..100).
func NewEngine(minConfidence float64, opts Options) *Engine {
	if opts.History == nil {
		opts.History = history.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		minConfidence: minConfidence,
		history:       opts.History,
		samples:       debuglog.New[domain.SampleDecision](opts.DebugCapacity),
		log:           opts.Logger,
	}
}

// Accept runs a sample through the confidence and parse gates and the
// decrease check, updating current EXP and history when it counts.
func (e *Engine) Accept(sample domain.CaptureSample) domain.SampleDecision {
	e.mu.Lock()
	d := e.accept(sample)
	e.mu.Unlock()

	e.samples.Add(d)
	e.logDecision(d)
	return d
}

func (e *Engine) accept(s domain.CaptureSample) domain.SampleDecision {
	d := domain.SampleDecision{Sample: s}

	if s.ConfidencePercent < e.minConfidence {
		d.Outcome = domain.OutcomeLowConfidence
		return d
	}
	if s.ParsedValue == nil {
		d.Outcome = domain.OutcomeUnparsed
		return d
	}
	v := *s.ParsedValue

	switch {
	case e.current == nil:
		e.set(s, v)
		d.Outcome = domain.OutcomeAccepted

	case v == *e.current:
		e.pending = nil
		d.Outcome = domain.OutcomeUnchanged

	case v > *e.current:
		d.Delta = v - *e.current
		e.pending = nil
		e.set(s, v)
		d.Outcome = domain.OutcomeAccepted

	case e.pending == nil:
		// A single drop is usually an OCR misread
		e.pending = &v
		d.Outcome = domain.OutcomeDecreasePending

	default:
		// Second drop in a row: level-up or character switch
		e.pending = nil
		e.segment++
		e.set(s, v)
		d.Outcome = domain.OutcomeRebaselined
	}
	return d
}

func (e *Engine) set(s domain.CaptureSample, v int64) {
	e.current = &v
	e.history.Append(domain.ExpHistoryEntry{
		Timestamp: s.Timestamp,
		Exp:       v,
		Segment:   e.segment,
	})
}

func (e *Engine) logDecision(d domain.SampleDecision) {
	switch d.Outcome {
	case domain.OutcomeAccepted:
		e.log.Info(LogMsgSampleAccepted, "exp", *d.Sample.ParsedValue, "delta", d.Delta,
			"confidence", d.Sample.ConfidencePercent)
	case domain.OutcomeRebaselined:
		e.log.Info(LogMsgRebaselined, "exp", *d.Sample.ParsedValue)
	case domain.OutcomeUnchanged:
		e.log.Debug(LogMsgSampleUnchanged, "exp", *d.Sample.ParsedValue)
	case domain.OutcomeLowConfidence:
		e.log.Debug(LogMsgLowConfidence, "text", d.Sample.RawText,
			"confidence", d.Sample.ConfidencePercent, "min_confidence", e.MinConfidence())
	case domain.OutcomeUnparsed:
		e.log.Debug(LogMsgUnparsed, "text", d.Sample.RawText)
	case domain.OutcomeDecreasePending:
		e.log.Debug(LogMsgDecreasePending, "exp", *d.Sample.ParsedValue)
	}
}

// CurrentExp returns the last accepted value, nil before the first one.
func (e *Engine) CurrentExp() *int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil {
		return nil
	}
	v := *e.current
	return &v
}

// History returns the accepted readings, oldest first.
func (e *Engine) History() []domain.ExpHistoryEntry {
	return e.history.Entries()
}

// Samples returns the most recent decisions, newest first.
func (e *Engine) Samples() []domain.SampleDecision {
	return e.samples.Entries()
}

// MinConfidence returns the confidence gate.
func (e *Engine) MinConfidence() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.minConfidence
}

// SetMinConfidence changes the confidence gate for later samples.
func (e *Engine) SetMinConfidence(c float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.minConfidence = c
}

// Reset forgets the current value, history and any pending decrease.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.current = nil
	e.pending = nil
	e.segment = 0
	e.history.Reset()
	e.mu.Unlock()

	e.samples.Clear()
	e.log.Info(LogMsgTrackingReset)
}
