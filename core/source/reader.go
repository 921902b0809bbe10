// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package source

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/core/coreutil"
)

type ReaderConfig struct {
	coreutil.ChunkSizeConfig `config:",squash"`
}

// NewReader returns source producing one chunk per read of r, each up
// to configured chunk size. Chunk data is freshly allocated: ownership
// passes to the caller per ChunkSource contract.
// If r implements io.Closer, it is closed with the source.
func NewReader(r io.Reader, conf ReaderConfig) core.ChunkSource {
	return &readerSource{r: r, chunkSize: conf.ChunkSizeOrDefault()}
}

type readerSource struct {
	r         io.Reader
	chunkSize int
	nextIndex int
	exhausted bool
}

func (s *readerSource) Next(_ context.Context, index int) (core.Chunk, bool, error) {
	if index != s.nextIndex {
		return core.Chunk{}, false, errors.Errorf("reader source is sequential: got index %v, want %v", index, s.nextIndex)
	}
	if s.exhausted {
		return core.Chunk{}, false, nil
	}
	buf := make([]byte, s.chunkSize)
	n, err := io.ReadFull(s.r, buf)
	switch err {
	case nil:
	case io.ErrUnexpectedEOF:
		s.exhausted = true
	case io.EOF:
		s.exhausted = true
		return core.Chunk{}, false, nil
	default:
		return core.Chunk{}, false, errors.WithMessagef(err, "read of chunk %v failed", index)
	}
	s.nextIndex++
	return core.Chunk{Index: index, Data: buf[:n]}, true, nil
}

func (s *readerSource) Close() error {
	closer, ok := s.r.(io.Closer)
	if !ok {
		return nil
	}
	return closer.Close()
}
