// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package coretest

import (
	"context"

	"go.uber.org/atomic"

	"github.com/Priya-it/armeria/core"
)

// ChunksSource produces given chunks in order, then reports exhaustion.
type ChunksSource struct {
	chunks    [][]byte
	NextCalls atomic.Int64
	CloseErr  error
	Closes    atomic.Int64
}

func NewChunksSource(chunks ...[]byte) *ChunksSource {
	return &ChunksSource{chunks: chunks}
}

func (s *ChunksSource) Next(_ context.Context, index int) (core.Chunk, bool, error) {
	s.NextCalls.Inc()
	if index >= len(s.chunks) {
		return core.Chunk{}, false, nil
	}
	return core.Chunk{Index: index, Data: s.chunks[index]}, true, nil
}

func (s *ChunksSource) Close() error {
	s.Closes.Inc()
	return s.CloseErr
}

// ErrSource produces good chunks, then fails with Err.
type ErrSource struct {
	Err       error
	good      [][]byte
	NextCalls atomic.Int64
	Closes    atomic.Int64
}

func NewErrSource(err error, good ...[]byte) *ErrSource {
	return &ErrSource{Err: err, good: good}
}

func (s *ErrSource) Next(_ context.Context, index int) (core.Chunk, bool, error) {
	s.NextCalls.Inc()
	if index < len(s.good) {
		return core.Chunk{Index: index, Data: s.good[index]}, true, nil
	}
	return core.Chunk{}, false, s.Err
}

func (s *ErrSource) Close() error {
	s.Closes.Inc()
	return nil
}

// SourceFunc adapts func to core.ChunkSource for inline test sources.
type SourceFunc func(ctx context.Context, index int) (core.Chunk, bool, error)

func (f SourceFunc) Next(ctx context.Context, index int) (core.Chunk, bool, error) {
	return f(ctx, index)
}
