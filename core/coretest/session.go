// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package coretest

import (
	"sync"

	"github.com/Priya-it/armeria/core/flowcontrol"
)

// Session is recording core.ResponseSession double.
// By default it consumes every write immediately, so returned signals
// are fulfilled and the stream writer never waits. Call SetManualConsume
// to model a slow peer and fulfill writes one by one with Consume.
type Session struct {
	mu            sync.Mutex
	controller    *flowcontrol.Controller
	manualConsume bool
	failHeaders   error
	failChunkAt   int
	failChunkErr  error
	failClose     error

	calls     []string
	chunks    [][]byte
	headers   int
	closes    int
	abortErrs []error

	canceled   chan struct{}
	cancelOnce sync.Once
}

func NewSession() *Session {
	return &Session{
		controller:  flowcontrol.NewController(),
		failChunkAt: -1,
		canceled:    make(chan struct{}),
	}
}

// SetManualConsume stops automatic consumption. Writes stay in flight
// until Consume is called.
func (s *Session) SetManualConsume() { s.manualConsume = true }

func (s *Session) SetFailHeaders(err error) { s.failHeaders = err }

// SetFailChunk makes WriteChunk with given zero-based call number fail.
func (s *Session) SetFailChunk(call int, err error) {
	s.failChunkAt = call
	s.failChunkErr = err
}

func (s *Session) SetFailClose(err error) { s.failClose = err }

func (s *Session) WriteHeaders() (flowcontrol.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "headers")
	if s.failHeaders != nil {
		return nil, s.failHeaders
	}
	s.headers++
	return s.write(), nil
}

func (s *Session) WriteChunk(data []byte) (flowcontrol.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "chunk")
	if len(s.chunks) == s.failChunkAt {
		return nil, s.failChunkErr
	}
	owned := make([]byte, len(data))
	copy(owned, data)
	s.chunks = append(s.chunks, owned)
	return s.write(), nil
}

func (s *Session) write() flowcontrol.Signal {
	sig := s.controller.ChunkWritten()
	if !s.manualConsume {
		s.controller.Consumed()
	}
	return sig
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "close")
	if s.failClose != nil {
		return s.failClose
	}
	s.closes++
	return nil
}

func (s *Session) Abort(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "abort")
	s.abortErrs = append(s.abortErrs, err)
}

func (s *Session) Canceled() <-chan struct{} { return s.canceled }

// CancelPeer models peer disconnect.
func (s *Session) CancelPeer() {
	s.cancelOnce.Do(func() { close(s.canceled) })
}

// Consume fulfills the oldest unfulfilled write.
func (s *Session) Consume() { s.controller.Consumed() }

func (s *Session) Controller() *flowcontrol.Controller { return s.controller }

func (s *Session) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Session) Chunks() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.chunks...)
}

func (s *Session) Headers() int { s.mu.Lock(); defer s.mu.Unlock(); return s.headers }
func (s *Session) Closes() int  { s.mu.Lock(); defer s.mu.Unlock(); return s.closes }

func (s *Session) AbortErrs() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.abortErrs...)
}
