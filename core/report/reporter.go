// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package report

import (
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/Priya-it/armeria/core"
)

type ReporterConfig struct {
	// SampleQueueSize is maximum number of unhandled samples.
	// On queue overflow, samples are dropped.
	SampleQueueSize int `config:"sample-queue-size" validate:"min=1"`
}

const DefaultSampleQueueSize = 4096

func DefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		SampleQueueSize: DefaultSampleQueueSize,
	}
}

func NewReporter(conf ReporterConfig) *Reporter {
	return &Reporter{
		Incoming: make(chan core.Sample, conf.SampleQueueSize),
	}
}

// Reporter is non-blocking sample queue shared by aggregator
// implementations: streams must never block on reporting, so on
// overflow samples are dropped and counted.
type Reporter struct {
	Incoming           chan core.Sample
	samplesDropped     atomic.Int64
	lastSampleDropWarn atomic.Int64
}

func (r *Reporter) DroppedErr() error {
	dropped := r.samplesDropped.Load()
	if dropped == 0 {
		return nil
	}
	return &SomeSamplesDropped{dropped}
}

func (r *Reporter) Report(s core.Sample) {
	select {
	case r.Incoming <- s:
	default:
		r.dropSample(s)
	}
}

func (r *Reporter) dropSample(core.Sample) {
	dropped := r.samplesDropped.Inc()
	if dropped == 1 {
		// AggregatorDeps may not be passed, because Run was not called.
		zap.L().Warn("First sample is dropped. More information in Run error")
	}
}

type SomeSamplesDropped struct {
	Dropped int64
}

func (err *SomeSamplesDropped) Error() string {
	return fmt.Sprintf("%v samples were dropped", err.Dropped)
}
