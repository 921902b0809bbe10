// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package report

import (
	"bufio"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/core/config"
	"github.com/Priya-it/armeria/core/coreutil"
	"github.com/Priya-it/armeria/lib/ioutil2"
)

type JSONLinesAggregatorConfig struct {
	EncoderAggregatorConfig `config:",squash"`
	JSONLinesEncoderConfig  `config:",squash"`
}

type JSONLinesEncoderConfig struct {
	JSONIterConfig           `config:",squash"`
	coreutil.ChunkSizeConfig `config:",squash"`
}

// JSONIterConfig is subset of jsoniter.Config that may be useful to configure.
type JSONIterConfig struct {
	// MarshalFloatWith6Digits makes float marshalling faster.
	MarshalFloatWith6Digits bool `config:"marshal-float-with-6-digits"`
	// SortMapKeys useful, when sample contains map object, and you want
	// to see them in same order.
	SortMapKeys bool `config:"sort-map-keys"`
}

func DefaultJSONLinesAggregatorConfig() JSONLinesAggregatorConfig {
	return JSONLinesAggregatorConfig{
		EncoderAggregatorConfig: DefaultEncoderAggregatorConfig(),
	}
}

// NewJSONLinesAggregator aggregates samples in JSON Lines format: each
// output line is a valid JSON value of one sample.
// See http://jsonlines.org/ for details.
func NewJSONLinesAggregator(conf JSONLinesAggregatorConfig) core.Aggregator {
	var newEncoder NewSampleEncoder = func(w io.Writer, onFlush func()) SampleEncoder {
		w = ioutil2.NewCallbackWriter(w, onFlush)
		return NewJSONEncoder(w, conf.JSONLinesEncoderConfig)
	}
	return NewEncoderAggregator(newEncoder, conf.EncoderAggregatorConfig)
}

func NewJSONEncoder(w io.Writer, conf JSONLinesEncoderConfig) SampleEncoder {
	var apiConfig jsoniter.Config
	config.Map(&apiConfig, conf.JSONIterConfig)
	api := apiConfig.Froze()
	buf := bufio.NewWriterSize(w, conf.ChunkSizeOrDefault())
	stream := jsoniter.NewStream(api, buf, conf.ChunkSizeOrDefault())
	return &jsonEncoder{stream, buf}
}

type jsonEncoder struct {
	*jsoniter.Stream
	buf *bufio.Writer
}

func (e *jsonEncoder) Encode(s core.Sample) error {
	e.WriteVal(s)
	e.WriteRaw("\n")
	return e.Error
}

func (e *jsonEncoder) Flush() error {
	err := e.Stream.Flush()
	_ = e.buf.Flush()
	return err
}
