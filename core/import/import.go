// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package coreimport registers bundled sources, sinks and aggregators.
package coreimport

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/core/config"
	"github.com/Priya-it/armeria/core/datasink"
	"github.com/Priya-it/armeria/core/register"
	"github.com/Priya-it/armeria/core/report"
	"github.com/Priya-it/armeria/core/source"
)

const (
	fileKey   = "file"
	stdoutKey = "stdout"
	stderrKey = "stderr"
)

func Import(fs afero.Fs) {
	register.Source("buffer", func(conf map[string]interface{}) (core.ChunkSource, error) {
		var typed source.BufferConfig
		if err := config.DecodeAndValidate(conf, &typed); err != nil {
			return nil, err
		}
		return source.NewBufferConf(typed), nil
	})
	register.Source(fileKey, func(conf map[string]interface{}) (core.ChunkSource, error) {
		var typed source.FileConfig
		if err := config.DecodeAndValidate(conf, &typed); err != nil {
			return nil, err
		}
		return source.NewFile(fs, typed), nil
	})

	register.Sink(fileKey, func(conf map[string]interface{}) (core.DataSink, error) {
		var typed datasink.FileConfig
		if err := config.DecodeAndValidate(conf, &typed); err != nil {
			return nil, err
		}
		return datasink.NewFile(fs, typed), nil
	})
	register.Sink(stdoutKey, func(map[string]interface{}) (core.DataSink, error) {
		return datasink.NewStdout(), nil
	})
	register.Sink(stderrKey, func(map[string]interface{}) (core.DataSink, error) {
		return datasink.NewStderr(), nil
	})

	register.Aggregator("discard", func(map[string]interface{}) (core.Aggregator, error) {
		return report.NewDiscard(), nil
	})
	register.Aggregator("log", func(map[string]interface{}) (core.Aggregator, error) {
		return report.NewLog(), nil
	})
	newJSONLines := func(conf map[string]interface{}) (core.Aggregator, error) {
		sink, rest, err := takeSink(conf)
		if err != nil {
			return nil, err
		}
		typed := report.DefaultJSONLinesAggregatorConfig()
		if err := config.Decode(rest, &typed); err != nil {
			return nil, err
		}
		typed.Sink = sink
		return report.NewJSONLinesAggregator(typed), nil
	}
	register.Aggregator("jsonlines", newJSONLines)
	// Alias for people expecting per line, not document, output.
	register.Aggregator("json", newJSONLines)
}

// takeSink resolves "sink" key of aggregator config. Value may be just
// sink name string or object with "type" and sink config fields.
func takeSink(conf map[string]interface{}) (core.DataSink, map[string]interface{}, error) {
	rest := map[string]interface{}{}
	for key, val := range conf {
		if key != "sink" {
			rest[key] = val
		}
	}
	sinkConf, ok := conf["sink"]
	if !ok {
		return nil, nil, errors.New("aggregator sink is required")
	}
	switch val := sinkConf.(type) {
	case string:
		sink, err := register.NewSink(val, nil)
		return sink, rest, err
	case map[string]interface{}:
		typeName, ok := val["type"].(string)
		if !ok {
			return nil, nil, errors.New("sink type is required")
		}
		sinkRest := map[string]interface{}{}
		for key, v := range val {
			if key != "type" {
				sinkRest[key] = v
			}
		}
		sink, err := register.NewSink(typeName, sinkRest)
		return sink, rest, err
	default:
		return nil, nil, errors.Errorf("invalid sink config type %T", sinkConf)
	}
}
