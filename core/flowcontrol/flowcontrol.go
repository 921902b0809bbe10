// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package flowcontrol implements the backpressure primitive of the
// streaming core: one-shot consumption signals and a FIFO controller
// that tracks how much written data has actually been drained by the
// downstream transport.
package flowcontrol

import (
	"sync"

	"go.uber.org/atomic"
)

// Signal is lazy one-shot notification that the written data it was
// minted for has left the local send buffer. Await fulfillment by
// receiving from it, usually in select with cancellation channels.
// A fulfilled signal channel is closed, so it never blocks again.
type Signal <-chan struct{}

// Fulfilled reports whether signal is already fulfilled. Never blocks.
func (s Signal) Fulfilled() bool {
	select {
	case <-s:
		return true
	default:
		return false
	}
}

// NewSignal returns unfulfilled signal and func that fulfills it.
// Fulfill is goroutine safe and idempotent.
func NewSignal() (Signal, func()) {
	ch := make(chan struct{})
	var once sync.Once
	return ch, func() {
		once.Do(func() { close(ch) })
	}
}

var fulfilled = func() Signal {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// FulfilledSignal returns signal that is fulfilled from the start.
// Useful for sessions that drain writes synchronously.
func FulfilledSignal() Signal { return fulfilled }

// Controller is FIFO ledger of chunks handed to the transport but not
// drained yet. Transport side mints a signal per written chunk with
// ChunkWritten and fulfills the oldest one on each Consumed call, so
// signals fulfill strictly in write order: signal for chunk i is never
// fulfilled before chunk i-1 signal.
// A Controller is goroutine safe: writer and transport completion
// callbacks race on it by design.
type Controller struct {
	mu      sync.Mutex
	pending []func()

	written     atomic.Int64
	consumed    atomic.Int64
	maxInFlight atomic.Int64
}

func NewController() *Controller {
	return &Controller{}
}

// ChunkWritten registers that one chunk has been handed to the transport
// and returns the signal that will fulfill when this chunk is drained.
// Exactly one signal per chunk.
func (c *Controller) ChunkWritten() Signal {
	sig, fulfill := NewSignal()
	c.mu.Lock()
	c.pending = append(c.pending, fulfill)
	c.mu.Unlock()

	c.written.Inc()
	inFlight := c.written.Load() - c.consumed.Load()
	for {
		max := c.maxInFlight.Load()
		if inFlight <= max || c.maxInFlight.CAS(max, inFlight) {
			break
		}
	}
	return sig
}

// Consumed notifies that the oldest in-flight chunk left the local send
// buffer, and fulfills its signal. Panics if nothing is in flight: that
// means transport reported consumption of a chunk that was never written,
// which is session implementation bug.
func (c *Controller) Consumed() {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		panic("flowcontrol: Consumed called without chunk in flight")
	}
	fulfill := c.pending[0]
	c.pending = c.pending[1:]
	c.mu.Unlock()

	c.consumed.Inc()
	fulfill()
}

// InFlight returns number of written but not yet consumed chunks.
func (c *Controller) InFlight() int {
	return int(c.written.Load() - c.consumed.Load())
}

// Written returns total number of chunks registered with ChunkWritten.
func (c *Controller) Written() int { return int(c.written.Load()) }

// MaxInFlight returns high watermark of InFlight over controller
// lifetime. Stream writer correctness implies it never exceeds one.
func (c *Controller) MaxInFlight() int { return int(c.maxInFlight.Load()) }
