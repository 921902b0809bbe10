// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package report

import (
	"context"

	"github.com/Priya-it/armeria/core"
)

// NewLog returns Aggregator that logs reported samples. Debug tool.
func NewLog() core.Aggregator {
	return &logging{sink: make(chan core.Sample, 128)}
}

type logging struct {
	sink chan core.Sample
	deps core.AggregatorDeps
}

func (l *logging) Report(sample core.Sample) {
	l.sink <- sample
}

func (l *logging) Run(ctx context.Context, deps core.AggregatorDeps) error {
	l.deps = deps
loop:
	for {
		select {
		case sample := <-l.sink:
			l.handle(sample)
		case <-ctx.Done():
			break loop
		}
	}
	for {
		// Context is done, but we should read all data from sink.
		select {
		case sample := <-l.sink:
			l.handle(sample)
		default:
			return nil
		}
	}
}

func (l *logging) handle(sample core.Sample) {
	l.deps.Log.Sugar().Info("Sample reported: ", sample)
}
