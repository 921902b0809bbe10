// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package report

import (
	"context"

	"github.com/Priya-it/armeria/core"
)

// NewDiscard returns Aggregator that just throws reported samples away.
func NewDiscard() core.Aggregator {
	return discard{}
}

type discard struct{}

func (discard) Run(ctx context.Context, _ core.AggregatorDeps) error {
	<-ctx.Done()
	return nil
}

func (discard) Report(core.Sample) {}
