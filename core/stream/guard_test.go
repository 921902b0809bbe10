package stream

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/core/coretest"
)

func TestGuardedSessionHappyPath(t *testing.T) {
	inner := coretest.NewSession()
	g := NewGuardedSession(inner)

	_, err := g.WriteHeaders()
	require.NoError(t, err)
	_, err = g.WriteChunk([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, g.Close())

	assert.Equal(t, []string{"headers", "chunk", "close"}, inner.Calls())
}

func TestGuardedSessionChunkBeforeHeaders(t *testing.T) {
	inner := coretest.NewSession()
	g := NewGuardedSession(inner)

	_, err := g.WriteChunk([]byte("data"))
	assert.Equal(t, ErrProtocolViolation, errors.Cause(err))
	assert.Empty(t, inner.Calls(), "violation never reaches transport")
}

func TestGuardedSessionDuplicateHeaders(t *testing.T) {
	g := NewGuardedSession(coretest.NewSession())

	_, err := g.WriteHeaders()
	require.NoError(t, err)
	_, err = g.WriteHeaders()
	assert.Equal(t, ErrProtocolViolation, errors.Cause(err))
}

func TestGuardedSessionWriteAfterClose(t *testing.T) {
	inner := coretest.NewSession()
	g := NewGuardedSession(inner)

	_, err := g.WriteHeaders()
	require.NoError(t, err)
	require.NoError(t, g.Close())

	_, err = g.WriteChunk([]byte("data"))
	assert.Equal(t, ErrProtocolViolation, errors.Cause(err))
	assert.Equal(t, ErrProtocolViolation, errors.Cause(g.Close()))
}

func TestGuardedSessionCloseUnstarted(t *testing.T) {
	g := NewGuardedSession(coretest.NewSession())
	assert.Equal(t, ErrProtocolViolation, errors.Cause(g.Close()))
}

func TestGuardedSessionDoubleAbort(t *testing.T) {
	inner := coretest.NewSession()
	g := NewGuardedSession(inner)

	first := errors.New("first cause")
	g.Abort(first)
	g.Abort(errors.New("second cause"))

	require.Len(t, inner.AbortErrs(), 1)
	assert.Equal(t, first, inner.AbortErrs()[0])
}

func TestGuardedSessionWriterKeepsProtocol(t *testing.T) {
	inner := coretest.NewSession()
	source := coretest.NewChunksSource(testChunks()...)
	w := NewWriter(NewGuardedSession(inner), source, core.StreamDeps{})

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, []string{"headers", "chunk", "chunk", "chunk", "close"}, inner.Calls())
}
