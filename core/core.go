// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package core defines streaming response engine extension points.
// Core interfaces implementations can be used for manual stream writer
// creation and using as a library, or can be registered in the source
// registry (look at core/register pkg), for creating chunk sources from
// abstract config.
package core

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/Priya-it/armeria/core/flowcontrol"
)

// Chunk is one unit of response payload. Chunks are immutable after
// production: ownership passes from ChunkSource to the stream writer on
// Next return, and to the transport on WriteChunk.
type Chunk struct {
	// Index is zero-based stream-wide sequence number. Chunks are always
	// written in strictly increasing index order.
	Index int
	// Data is chunk payload. Must not be mutated after return from Next.
	Data []byte
}

// ChunkSource is pull-driven producer of response payload: file segments,
// database row batches, or anything else an application streams out.
// The stream writer controls call cadence, so implementations have no
// requirements on how fast Next is called.
type ChunkSource interface {
	// Next produces the chunk with the given zero-based index.
	// Index grows monotonically, one call per index.
	// ok equal false means the source is exhausted: normal stream
	// termination, not an error.
	// Non-nil err is terminal: Next must not be called again for this
	// stream after it.
	// Next should respect ctx cancel for long production, but may also
	// just ignore it: the stream writer never writes a chunk produced
	// after cancellation was observed.
	Next(ctx context.Context, index int) (c Chunk, ok bool, err error)

	// io.Closer // Optional. Sources that hold resources SHOULD implement
	// io.Closer; Close is called exactly once on stream termination.
}

// ResponseSession represents the live request/response exchange and owns
// the transport write path. Framing and encoding of chunk bytes is session
// responsibility; this package defines only the flow contract.
// A session is exclusively owned by one stream writer for the stream
// lifetime: no other component may write to it concurrently.
type ResponseSession interface {
	// WriteHeaders writes response headers. Counts as a pseudo-chunk for
	// flow control: returned signal fulfills when headers left the local
	// send buffer.
	WriteHeaders() (flowcontrol.Signal, error)
	// WriteChunk hands chunk payload to the transport. Returned signal
	// fulfills when the chunk left the local send buffer. Signals fulfill
	// in write order.
	WriteChunk(data []byte) (flowcontrol.Signal, error)
	// Close completes the response successfully. At most one Close or
	// Abort call per session.
	Close() error
	// Abort terminates the response abnormally with given cause.
	Abort(err error)
	// Canceled returns channel closed when the peer disconnects or the
	// enclosing request is canceled by the transport.
	Canceled() <-chan struct{}
}

// Sample is data containing one stream report: chunk count, byte count,
// timings, termination cause.
type Sample interface{}

// Aggregator is routine that aggregates samples from all streams.
// Usually aggregator is access log writer, that encodes reported samples
// to a sink in machine readable format for future analysis.
// An Aggregator must be goroutine safe.
type Aggregator interface {
	// Run starts aggregator routine. Blocks until error or context cancel.
	// In case of context cancel, return nil, ctx.Err(), or error caused
	// ctx.Err() in terms of github.com/pkg/errors.Cause.
	Run(ctx context.Context, deps AggregatorDeps) error
	// Report reports sample to aggregator. Should be lightweight and not
	// blocking, so stream writer can proceed as soon as possible.
	// If Aggregator can't process reported sample without blocking, it
	// should just throw it away. If any reported samples were thrown
	// away, Run should return error describing how many samples were
	// thrown away.
	// Report may be called before Aggregator Run.
	Report(Sample)
}

// AggregatorDeps are passed to Aggregator on Run.
type AggregatorDeps struct {
	Log *zap.Logger
}

// StreamDeps are dependencies of one stream writer.
type StreamDeps struct {
	Log *zap.Logger
	// Tag marks samples reported for this stream. Usually stream id.
	Tag string
	// Aggregator is optional; when set, the writer reports one sample on
	// stream termination.
	Aggregator Aggregator
}

// DataSink is abstract data destination: aggregator output.
type DataSink interface {
	// OpenSink opens sink for writing. Sink should be closed after usage.
	OpenSink() (wc io.WriteCloser, err error)
}
