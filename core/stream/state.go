// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package stream

import "fmt"

// State is stream writer lifecycle state. Exactly one writer owns one
// state; it is mutated only by the writer run loop, never from two call
// sites.
type State int

const (
	// Idle is initial state: nothing written yet.
	Idle State = iota
	// AwaitingConsumption: last write is in flight, writer is suspended
	// until its consumption signal fulfills.
	AwaitingConsumption
	// Producing: writer is pulling the next chunk from the source.
	Producing
	// Closed is terminal: source exhausted, session closed.
	Closed
	// Failed is terminal: source error, transport error, or cancellation.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case AwaitingConsumption:
		return "AwaitingConsumption"
	case Producing:
		return "Producing"
	case Closed:
		return "Closed"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further chunks may be produced or written.
func (s State) Terminal() bool {
	return s == Closed || s == Failed
}
