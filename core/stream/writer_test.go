package stream

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/core/coretest"
	"github.com/Priya-it/armeria/core/report"
)

func testChunks() [][]byte {
	return [][]byte{
		make([]byte, 10),
		make([]byte, 20),
		make([]byte, 5),
	}
}

func TestWriterStreamsAllChunks(t *testing.T) {
	session := coretest.NewSession()
	source := coretest.NewChunksSource(testChunks()...)
	w := NewWriter(session, source, core.StreamDeps{})

	err := w.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"headers", "chunk", "chunk", "chunk", "close"}, session.Calls())
	assert.Equal(t, testChunks(), session.Chunks())
	assert.Equal(t, Closed, w.State())
	assert.Nil(t, w.Failure())
	assert.Equal(t, 3, w.ChunksWritten())
	assert.EqualValues(t, 35, w.BytesWritten())
	assert.EqualValues(t, 4, source.NextCalls.Load())
	assert.EqualValues(t, 1, source.Closes.Load())
}

func TestWriterEmptySource(t *testing.T) {
	session := coretest.NewSession()
	w := NewWriter(session, coretest.NewChunksSource(), core.StreamDeps{})

	err := w.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"headers", "close"}, session.Calls())
	assert.Equal(t, Closed, w.State())
	assert.Zero(t, w.ChunksWritten())
}

func TestWriterSourceError(t *testing.T) {
	sourceErr := errors.New("production failed")
	session := coretest.NewSession()
	source := coretest.NewErrSource(sourceErr, testChunks()[:2]...)
	w := NewWriter(session, source, core.StreamDeps{})

	err := w.Run(context.Background())
	require.Error(t, err)

	var streamErr *Error
	require.ErrorAs(t, err, &streamErr)
	assert.Equal(t, FailSource, streamErr.Kind)
	assert.Equal(t, sourceErr, errors.Cause(streamErr.Err))

	assert.Equal(t, []string{"headers", "chunk", "chunk", "abort"}, session.Calls())
	assert.Zero(t, session.Closes())
	assert.Equal(t, 2, w.ChunksWritten())
	assert.Equal(t, Failed, w.State())
	assert.Equal(t, streamErr, w.Failure())
	// Next is never called again after terminal error.
	assert.EqualValues(t, 3, source.NextCalls.Load())
	assert.EqualValues(t, 1, source.Closes.Load())
}

func TestWriterSourceIndexMismatch(t *testing.T) {
	session := coretest.NewSession()
	source := coretest.SourceFunc(func(_ context.Context, index int) (core.Chunk, bool, error) {
		return core.Chunk{Index: index + 1, Data: []byte("x")}, true, nil
	})
	w := NewWriter(session, source, core.StreamDeps{})

	err := w.Run(context.Background())
	require.Error(t, err)

	var streamErr *Error
	require.ErrorAs(t, err, &streamErr)
	assert.Equal(t, FailSource, streamErr.Kind)
	assert.Zero(t, w.ChunksWritten())
}

func TestWriterTransportError(t *testing.T) {
	transportErr := errors.New("connection reset")
	session := coretest.NewSession()
	session.SetFailChunk(1, transportErr)
	w := NewWriter(session, coretest.NewChunksSource(testChunks()...), core.StreamDeps{})

	err := w.Run(context.Background())
	require.Error(t, err)

	var streamErr *Error
	require.ErrorAs(t, err, &streamErr)
	assert.Equal(t, FailTransport, streamErr.Kind)
	assert.Equal(t, transportErr, errors.Cause(streamErr.Err))

	assert.Equal(t, []string{"headers", "chunk", "chunk", "abort"}, session.Calls())
	assert.Equal(t, 1, w.ChunksWritten())
	assert.Equal(t, Failed, w.State())
}

func TestWriterCloseError(t *testing.T) {
	closeErr := errors.New("close failed")
	session := coretest.NewSession()
	session.SetFailClose(closeErr)
	w := NewWriter(session, coretest.NewChunksSource(), core.StreamDeps{})

	err := w.Run(context.Background())
	require.Error(t, err)

	var streamErr *Error
	require.ErrorAs(t, err, &streamErr)
	assert.Equal(t, FailTransport, streamErr.Kind)
	// Transport already failed the stream, no abort on top of it.
	assert.Equal(t, []string{"headers", "close"}, session.Calls())
	assert.Equal(t, Failed, w.State())
}

func TestWriterSessionCancelBeforeRun(t *testing.T) {
	session := coretest.NewSession()
	session.CancelPeer()
	source := coretest.NewChunksSource(testChunks()...)
	w := NewWriter(session, source, core.StreamDeps{})

	err := w.Run(context.Background())
	require.NoError(t, err, "session cancel is not Run error")

	assert.Equal(t, []string{"abort"}, session.Calls())
	require.NotNil(t, w.Failure())
	assert.Equal(t, FailCanceled, w.Failure().Kind)
	assert.Equal(t, Failed, w.State())
	assert.Zero(t, source.NextCalls.Load())
	assert.EqualValues(t, 1, source.Closes.Load())
}

func TestWriterSessionCancelWhileAwaiting(t *testing.T) {
	session := coretest.NewSession()
	session.SetManualConsume()
	source := coretest.NewChunksSource(testChunks()...)
	w := NewWriter(session, source, core.StreamDeps{})

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	// Headers stay unconsumed, the writer is parked waiting for them.
	require.Eventually(t, func() bool {
		return session.Controller().InFlight() == 1
	}, time.Second, time.Millisecond)
	session.CancelPeer()

	require.NoError(t, <-done)
	assert.Equal(t, []string{"headers", "abort"}, session.Calls())
	assert.Zero(t, source.NextCalls.Load(), "no production after cancel")
	require.NotNil(t, w.Failure())
	assert.Equal(t, FailCanceled, w.Failure().Kind)
}

func TestWriterCancelDiscardsProducedChunk(t *testing.T) {
	session := coretest.NewSession()
	chunks := testChunks()
	source := coretest.SourceFunc(func(_ context.Context, index int) (core.Chunk, bool, error) {
		if index == 1 {
			// Peer disconnect races chunk production and loses.
			session.CancelPeer()
		}
		return core.Chunk{Index: index, Data: chunks[index]}, true, nil
	})
	w := NewWriter(session, source, core.StreamDeps{})

	err := w.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"headers", "chunk", "abort"}, session.Calls())
	assert.Equal(t, 1, w.ChunksWritten(), "chunk produced after cancel is discarded")
	require.NotNil(t, w.Failure())
	assert.Equal(t, FailCanceled, w.Failure().Kind)
}

func TestWriterContextCancel(t *testing.T) {
	session := coretest.NewSession()
	session.SetManualConsume()
	w := NewWriter(session, coretest.NewChunksSource(testChunks()...), core.StreamDeps{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		return session.Controller().InFlight() == 1
	}, time.Second, time.Millisecond)
	cancel()

	assert.Equal(t, context.Canceled, <-done)
	require.NotNil(t, w.Failure())
	assert.Equal(t, FailCanceled, w.Failure().Kind)
}

func TestWriterRunTwice(t *testing.T) {
	session := coretest.NewSession()
	w := NewWriter(session, coretest.NewChunksSource(), core.StreamDeps{})

	require.NoError(t, w.Run(context.Background()))
	err := w.Run(context.Background())
	assert.Equal(t, ErrProtocolViolation, errors.Cause(err))
}

func TestWriterOneChunkInFlight(t *testing.T) {
	const chunks = 5
	session := coretest.NewSession()
	session.SetManualConsume()
	var data [][]byte
	for i := 0; i < chunks; i++ {
		data = append(data, make([]byte, 100))
	}
	w := NewWriter(session, coretest.NewChunksSource(data...), core.StreamDeps{})

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	// Slow consumer: drain headers and chunks one by one.
	for i := 0; i < chunks+1; i++ {
		require.Eventually(t, func() bool {
			return session.Controller().InFlight() == 1
		}, time.Second, time.Millisecond)
		session.Consume()
	}

	require.NoError(t, <-done)
	assert.Equal(t, chunks+1, session.Controller().Written())
	assert.Equal(t, 1, session.Controller().MaxInFlight(), "at most one chunk in flight")
	assert.Equal(t, chunks, w.ChunksWritten())
	assert.Equal(t, Closed, w.State())
}

func TestWriterReportsSample(t *testing.T) {
	agg := &recordAggregator{}
	session := coretest.NewSession()
	w := NewWriter(session, coretest.NewChunksSource(testChunks()...), core.StreamDeps{
		Tag:        "42",
		Aggregator: agg,
	})

	require.NoError(t, w.Run(context.Background()))

	samples := agg.Samples()
	require.Len(t, samples, 1)
	sample, ok := samples[0].(report.Sample)
	require.True(t, ok)
	assert.Equal(t, "42", sample.Tag)
	assert.Equal(t, 3, sample.Chunks)
	assert.EqualValues(t, 35, sample.Bytes)
	assert.Equal(t, Closed.String(), sample.Result)
	assert.Empty(t, sample.Error)
}

type recordAggregator struct {
	mu      sync.Mutex
	samples []core.Sample
}

func (a *recordAggregator) Run(ctx context.Context, _ core.AggregatorDeps) error {
	<-ctx.Done()
	return nil
}

func (a *recordAggregator) Report(s core.Sample) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.samples = append(a.samples, s)
}

func (a *recordAggregator) Samples() []core.Sample {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]core.Sample(nil), a.samples...)
}
