// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package stream implements the backpressure-aware streaming response
// writer: an explicit state machine that pulls chunks from a source only
// after the previous write was drained by the transport, bounding memory
// to one chunk in flight regardless of producer or consumer speed.
package stream

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/core/coreutil"
	"github.com/Priya-it/armeria/core/report"
)

// Writer mediates between one ChunkSource and one ResponseSession.
// All transitions of one Writer are serialized in its Run loop: no two
// chunks are ever produced or written concurrently for the same stream.
// Independent writers share no mutable state and run fully in parallel.
type Writer struct {
	log     *zap.Logger
	session core.ResponseSession
	source  core.ChunkSource
	deps    core.StreamDeps

	started atomic.Bool
	state   atomic.Int32
	failure atomic.Error

	chunksWritten int
	bytesWritten  int64
}

// NewWriter returns writer bound to one session and one source.
// The session transport handle is exclusively owned by the returned
// writer for the stream lifetime.
func NewWriter(session core.ResponseSession, source core.ChunkSource, deps core.StreamDeps) *Writer {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Writer{
		log:     deps.Log,
		session: session,
		source:  source,
		deps:    deps,
	}
}

// State returns current stream state. Safe for concurrent use.
func (w *Writer) State() State { return State(w.state.Load()) }

// Failure returns the terminal failure, if any. Cancellation is recorded
// here but not surfaced as Run error: it is a silent terminal state
// unless the application explicitly checks.
func (w *Writer) Failure() *Error {
	err := w.failure.Load()
	if err == nil {
		return nil
	}
	return err.(*Error)
}

// ChunksWritten returns number of chunks handed to the transport.
// Must not be called concurrently with Run.
func (w *Writer) ChunksWritten() int { return w.chunksWritten }

// BytesWritten returns total chunk payload bytes handed to the transport.
// Must not be called concurrently with Run.
func (w *Writer) BytesWritten() int64 { return w.bytesWritten }

// Run drives the stream to a terminal state. Blocks until the source is
// exhausted, an error happens, or cancellation is observed. Returns nil
// on successful close and on cancellation caused by session cancel;
// returns ctx.Err() when canceled by ctx, per usual Run conventions.
// Run may be called once; the second call fails with ErrProtocolViolation.
func (w *Writer) Run(ctx context.Context) error {
	if !w.started.CAS(false, true) {
		return errors.WithStack(ErrProtocolViolation)
	}
	w.log.Debug("Stream started")
	startedAt := time.Now()
	err := w.run(ctx)
	w.release()
	w.report(startedAt)
	w.log.Debug("Stream finished",
		zap.Stringer("state", w.State()),
		zap.Int("chunks", w.chunksWritten),
		zap.Int64("bytes", w.bytesWritten))
	return err
}

func (w *Writer) run(ctx context.Context) error {
	waiter := coreutil.NewSignalWaiter(ctx, w.session.Canceled())
	if waiter.IsCanceled() {
		return w.cancel(ctx)
	}

	// Header write counts as pseudo-chunk: the first source pull happens
	// only after headers are drained.
	sig, err := w.session.WriteHeaders()
	if err != nil {
		return w.abort(newError(FailTransport, errors.WithMessage(err, "headers write failed")))
	}
	w.state.Store(int32(AwaitingConsumption))

	for index := 0; ; index++ {
		if !waiter.Wait(sig) {
			return w.cancel(ctx)
		}
		w.state.Store(int32(Producing))

		chunk, ok, err := w.source.Next(ctx, index)
		if err != nil {
			return w.abort(newError(FailSource, errors.WithMessagef(err, "chunk %v production failed", index)))
		}
		// Discard-on-cancel: a chunk produced after cancellation was
		// observed must never reach the transport.
		if waiter.IsCanceled() {
			return w.cancel(ctx)
		}
		if !ok {
			w.log.Debug("Source exhausted")
			if err := w.session.Close(); err != nil {
				w.setFailure(newError(FailTransport, errors.WithMessage(err, "session close failed")))
				return w.Failure()
			}
			w.state.Store(int32(Closed))
			return nil
		}
		if chunk.Index != index {
			return w.abort(newError(FailSource,
				errors.Errorf("source returned chunk %v instead of %v", chunk.Index, index)))
		}

		sig, err = w.session.WriteChunk(chunk.Data)
		if err != nil {
			return w.abort(newError(FailTransport, errors.WithMessagef(err, "chunk %v write failed", index)))
		}
		w.chunksWritten++
		w.bytesWritten += int64(len(chunk.Data))
		w.state.Store(int32(AwaitingConsumption))
	}
}

// abort is terminal transition for source and transport failures:
// session is aborted with the cause, failure is surfaced to the caller.
func (w *Writer) abort(streamErr *Error) error {
	w.log.Warn("Stream failed", zap.Error(streamErr))
	// On transport failure abort is best effort: the session may be gone.
	w.session.Abort(streamErr)
	w.setFailure(streamErr)
	return streamErr
}

// cancel is terminal transition for observed cancellation. Silent:
// recorded in Failure, not returned as error, except ctx.Err() pass
// through for callers that select on it.
func (w *Writer) cancel(ctx context.Context) error {
	w.log.Debug("Stream canceled")
	streamErr := newError(FailCanceled, errors.New("stream canceled"))
	w.session.Abort(streamErr)
	w.setFailure(streamErr)
	return ctx.Err()
}

func (w *Writer) setFailure(streamErr *Error) {
	w.failure.Store(streamErr)
	w.state.Store(int32(Failed))
}

// release closes the source exactly once, on any terminal transition.
func (w *Writer) release() {
	closer, ok := w.source.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		w.log.Warn("Source close failed", zap.Error(err))
		return
	}
	w.log.Debug("Source closed")
}

func (w *Writer) report(startedAt time.Time) {
	if w.deps.Aggregator == nil {
		return
	}
	sample := report.Sample{
		Tag:       w.deps.Tag,
		Chunks:    w.chunksWritten,
		Bytes:     w.bytesWritten,
		ElapsedUs: time.Since(startedAt).Microseconds(),
		Result:    w.State().String(),
	}
	if failure := w.Failure(); failure != nil {
		sample.Error = failure.Error()
	}
	w.deps.Aggregator.Report(sample)
}
