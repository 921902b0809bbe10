// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package stream

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/core/flowcontrol"
)

// NewGuardedSession wraps session with response protocol enforcement:
// headers are written exactly once and before any chunk, and nothing is
// written after Close or Abort. Violations are reported as
// ErrProtocolViolation without reaching the transport.
// Useful around hand-written session implementations; writers produced
// by NewWriter keep the protocol by construction.
func NewGuardedSession(s core.ResponseSession) core.ResponseSession {
	return &guardedSession{s: s}
}

type guardedSession struct {
	s core.ResponseSession

	mu             sync.Mutex
	headersWritten bool
	terminated     bool
}

func (g *guardedSession) WriteHeaders() (flowcontrol.Signal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.terminated || g.headersWritten {
		return nil, errors.WithMessage(ErrProtocolViolation, "duplicate or late headers write")
	}
	g.headersWritten = true
	return g.s.WriteHeaders()
}

func (g *guardedSession) WriteChunk(data []byte) (flowcontrol.Signal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.headersWritten {
		return nil, errors.WithMessage(ErrProtocolViolation, "chunk write before headers")
	}
	if g.terminated {
		return nil, errors.WithMessage(ErrProtocolViolation, "chunk write after stream end")
	}
	return g.s.WriteChunk(data)
}

func (g *guardedSession) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.headersWritten || g.terminated {
		return errors.WithMessage(ErrProtocolViolation, "close of unstarted or ended stream")
	}
	g.terminated = true
	return g.s.Close()
}

func (g *guardedSession) Abort(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.terminated {
		// Double abort is swallowed: abort carries no return path, and
		// the session was already terminated with some cause.
		return
	}
	g.terminated = true
	g.s.Abort(err)
}

func (g *guardedSession) Canceled() <-chan struct{} {
	return g.s.Canceled()
}
