// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package source

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/Priya-it/armeria/core"
)

// RowSource supplies values to encode. nil row means no more rows.
type RowSource func() (row interface{}, err error)

type JSONLinesConfig struct {
	// MarshalFloatWith6Digits makes floats human readable.
	MarshalFloatWith6Digits bool `config:"marshal-float-with-6-digits"`
	SortMapKeys             bool `config:"sort-map-keys"`
}

// NewJSONLines returns source emitting one JSON line per chunk.
// Each chunk is a single row encoded with jsoniter plus trailing
// newline, so the stream concatenation is valid JSON Lines.
func NewJSONLines(rows RowSource, conf JSONLinesConfig) core.ChunkSource {
	api := jsoniter.Config{
		MarshalFloatWith6Digits: conf.MarshalFloatWith6Digits,
		SortMapKeys:             conf.SortMapKeys,
	}.Froze()
	return &jsonLinesSource{rows: rows, api: api}
}

type jsonLinesSource struct {
	rows      RowSource
	api       jsoniter.API
	nextIndex int
	exhausted bool
}

func (s *jsonLinesSource) Next(_ context.Context, index int) (core.Chunk, bool, error) {
	if index != s.nextIndex {
		return core.Chunk{}, false, errors.Errorf("json lines source is sequential: got index %v, want %v", index, s.nextIndex)
	}
	if s.exhausted {
		return core.Chunk{}, false, nil
	}
	row, err := s.rows()
	if err != nil {
		return core.Chunk{}, false, errors.WithMessagef(err, "row %v get failed", index)
	}
	if row == nil {
		s.exhausted = true
		return core.Chunk{}, false, nil
	}
	data, err := s.api.Marshal(row)
	if err != nil {
		return core.Chunk{}, false, errors.WithMessagef(err, "row %v marshal failed", index)
	}
	s.nextIndex++
	return core.Chunk{Index: index, Data: append(data, '\n')}, true, nil
}
