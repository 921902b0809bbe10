// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package stream

import (
	"fmt"

	"github.com/pkg/errors"
)

// FailKind classifies terminal stream failures.
type FailKind int

const (
	// FailSource: chunk source failed to produce a chunk.
	FailSource FailKind = iota + 1
	// FailTransport: session write, close or flush failed.
	FailTransport
	// FailCanceled: peer disconnected or the enclosing request was
	// canceled. Not surfaced as Run error; check Writer.Failure.
	FailCanceled
	// FailProtocol: programmer error, like writing chunks before headers
	// or running a finished stream again.
	FailProtocol
)

func (k FailKind) String() string {
	switch k {
	case FailSource:
		return "source"
	case FailTransport:
		return "transport"
	case FailCanceled:
		return "canceled"
	case FailProtocol:
		return "protocol"
	default:
		return fmt.Sprintf("FailKind(%d)", int(k))
	}
}

// ErrProtocolViolation is returned on response protocol misuse: write
// before headers, write after close, second Run of same writer.
// Misuse is never silently ignored.
var ErrProtocolViolation = errors.New("response stream protocol violation")

// Error is single terminal failure value of a stream, carrying the
// original cause. Streams are single-shot: an Error is never retried.
type Error struct {
	Kind FailKind
	Err  error
}

func newError(kind FailKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("stream failed (%s): %s", e.Kind, e.Err)
}

// Cause supports github.com/pkg/errors cause unwrapping.
func (e *Error) Cause() error { return e.Err }

func (e *Error) Unwrap() error { return e.Err }
