// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package stream

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/core/report"
	"github.com/Priya-it/armeria/lib/errutil"
	"github.com/Priya-it/armeria/lib/monitoring"
)

// Exchange is one accepted request/response pair delivered by the
// routing layer: the established session and the source the application
// handler bound to it.
type Exchange struct {
	Session core.ResponseSession
	Source  core.ChunkSource
}

type RunnerConfig struct {
	// Result aggregates per-stream samples. Discard when not set.
	Result core.Aggregator `config:"result"`
}

type Metrics struct {
	StreamStart  *monitoring.Counter
	StreamFinish *monitoring.Counter
	Chunk        *monitoring.Counter
}

func newMetrics() Metrics {
	return Metrics{
		&monitoring.Counter{},
		&monitoring.Counter{},
		&monitoring.Counter{},
	}
}

// NewRunner returns runner that drives a writer per incoming exchange.
// Streams run fully in parallel; each one is serialized inside its own
// writer.
func NewRunner(log *zap.Logger, m Metrics, conf RunnerConfig) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if m == (Metrics{}) {
		m = newMetrics()
	}
	if conf.Result == nil {
		conf.Result = report.NewDiscard()
	}
	return &Runner{log: log, metrics: m, conf: conf}
}

type Runner struct {
	log     *zap.Logger
	metrics Metrics
	conf    RunnerConfig
}

type runResult struct {
	ID     string
	Writer *Writer
	Err    error
}

// Run accepts exchanges until incoming close, running one writer
// goroutine per exchange, and blocks until all started streams finish.
// Returns first non-context stream or aggregator error; remaining
// streams are canceled through ctx.
func (r *Runner) Run(ctx context.Context, incoming <-chan Exchange) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		r.log.Debug("Runner finished")
		cancel()
	}()

	aggregatorErr := make(chan error, 1)
	go func() {
		aggregatorErr <- r.conf.Result.Run(ctx, core.AggregatorDeps{Log: r.log})
	}()

	runRes := make(chan runResult)
	var started, awaited int
	for incoming != nil || awaited < started {
		select {
		case ex, ok := <-incoming:
			if !ok {
				incoming = nil
				continue
			}
			id := strconv.Itoa(started)
			started++
			r.metrics.StreamStart.Add(1)
			w := NewWriter(ex.Session, ex.Source, core.StreamDeps{
				Log:        r.log.With(zap.String("stream", id)),
				Tag:        id,
				Aggregator: r.conf.Result,
			})
			go func() {
				err := w.Run(ctx)
				select {
				case runRes <- runResult{id, w, err}:
				case <-ctx.Done():
					r.log.Debug("Stream run result suppressed",
						zap.String("stream", id), zap.Error(err))
				}
			}()
		case res := <-runRes:
			awaited++
			r.metrics.StreamFinish.Add(1)
			r.metrics.Chunk.Add(int64(res.Writer.ChunksWritten()))
			if errutil.IsNotCtxError(ctx, res.Err) {
				r.log.Warn("Stream run failed. Canceling started streams",
					zap.String("stream", res.ID), zap.Error(res.Err))
				return errors.WithMessage(res.Err, fmt.Sprintf("stream %q run failed", res.ID))
			}
		case <-ctx.Done():
			r.log.Debug("Runner canceled")
			return ctx.Err()
		}
	}
	r.log.Debug("All streams awaited", zap.Int("awaited", awaited))

	cancel() // Signal to aggregator, that runner run is finished.
	err := <-aggregatorErr
	if errutil.IsNotCtxError(ctx, err) {
		return errors.WithMessage(err, "aggregator failed")
	}
	return nil
}
