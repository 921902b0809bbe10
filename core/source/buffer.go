// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package source provides core.ChunkSource implementations.
package source

import (
	"context"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/core/coreutil"
)

type BufferConfig struct {
	// Data is payload to stream. May be set from config for test streams.
	Data                     string `config:"data"`
	coreutil.ChunkSizeConfig `config:",squash"`
}

// NewBuffer returns source that slices data into fixed size chunks.
// Useful for responses that are already in memory.
func NewBuffer(data []byte, conf BufferConfig) core.ChunkSource {
	return &bufferSource{data: data, chunkSize: conf.ChunkSizeOrDefault()}
}

func NewBufferConf(conf BufferConfig) core.ChunkSource {
	return NewBuffer([]byte(conf.Data), conf)
}

type bufferSource struct {
	data      []byte
	chunkSize int
}

func (s *bufferSource) Next(_ context.Context, index int) (core.Chunk, bool, error) {
	offset := index * s.chunkSize
	if offset >= len(s.data) {
		return core.Chunk{}, false, nil
	}
	end := offset + s.chunkSize
	if end > len(s.data) {
		end = len(s.data)
	}
	return core.Chunk{Index: index, Data: s.data[offset:end]}, true, nil
}
