// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package coreutil

import (
	"context"

	"github.com/Priya-it/armeria/core/flowcontrol"
)

// SignalWaiter goroutine unsafe wrapper for efficient waiting of
// consumption signals under cancellation. The wait parks the goroutine;
// no execution resource is held while the transport drains.
type SignalWaiter struct {
	ctx      context.Context
	canceled <-chan struct{}
}

// NewSignalWaiter returns waiter that unblocks on signal fulfill, ctx
// done, or canceled close. canceled is usually session cancellation
// subscription; nil canceled means wait on ctx only.
func NewSignalWaiter(ctx context.Context, canceled <-chan struct{}) *SignalWaiter {
	return &SignalWaiter{ctx: ctx, canceled: canceled}
}

// Wait waits for signal fulfill. Returns true if signal was fulfilled,
// or false if cancellation was observed.
// Cancellation wins ties: if cancel and fulfill are both observable,
// Wait returns false, so the caller never schedules further work after
// cancellation.
func (w *SignalWaiter) Wait(sig flowcontrol.Signal) (ok bool) {
	if w.IsCanceled() {
		return false
	}
	// Quick path: fulfill already happened, no park needed.
	if sig.Fulfilled() {
		return true
	}
	select {
	case <-sig:
		return !w.IsCanceled()
	case <-w.ctx.Done():
		return false
	case <-w.canceled:
		return false
	}
}

// IsCanceled is quick check that waiter context is done or session
// cancellation was signaled. Never blocks.
func (w *SignalWaiter) IsCanceled() bool {
	select {
	case <-w.ctx.Done():
		return true
	case <-w.canceled:
		return true
	default:
		return false
	}
}
