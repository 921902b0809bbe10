// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package register provides name based registries for core extension
// points, so sources, sinks and aggregators can be chosen from config.
package register

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Priya-it/armeria/core"
)

type (
	SourceConstructor     func(conf map[string]interface{}) (core.ChunkSource, error)
	SinkConstructor       func(conf map[string]interface{}) (core.DataSink, error)
	AggregatorConstructor func(conf map[string]interface{}) (core.Aggregator, error)
)

var (
	sources     = map[string]SourceConstructor{}
	sinks       = map[string]SinkConstructor{}
	aggregators = map[string]AggregatorConstructor{}
)

// Source registers chunk source constructor under name.
// Panics on duplicate registration, as it is a programming error.
func Source(name string, newSource SourceConstructor) {
	if _, dup := sources[name]; dup {
		panic(errors.Errorf("source %q already registered", name))
	}
	sources[name] = newSource
}

func Sink(name string, newSink SinkConstructor) {
	if _, dup := sinks[name]; dup {
		panic(errors.Errorf("sink %q already registered", name))
	}
	sinks[name] = newSink
}

func Aggregator(name string, newAggregator AggregatorConstructor) {
	if _, dup := aggregators[name]; dup {
		panic(errors.Errorf("aggregator %q already registered", name))
	}
	aggregators[name] = newAggregator
}

func NewSource(name string, conf map[string]interface{}) (core.ChunkSource, error) {
	newSource, ok := sources[name]
	if !ok {
		return nil, errors.Errorf("unknown source %q, registered: %v", name, SourceNames())
	}
	return newSource(conf)
}

func NewSink(name string, conf map[string]interface{}) (core.DataSink, error) {
	newSink, ok := sinks[name]
	if !ok {
		return nil, errors.Errorf("unknown sink %q, registered: %v", name, sortedNames(sinks))
	}
	return newSink(conf)
}

func NewAggregator(name string, conf map[string]interface{}) (core.Aggregator, error) {
	newAggregator, ok := aggregators[name]
	if !ok {
		return nil, errors.Errorf("unknown aggregator %q, registered: %v", name, sortedNames(aggregators))
	}
	return newAggregator(conf)
}

// SourceNames returns registered source names sorted for stable output.
func SourceNames() []string { return sortedNames(sources) }

func sortedNames[C any](registry map[string]C) []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}
