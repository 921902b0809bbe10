// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package coreutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Priya-it/armeria/core/flowcontrol"
)

func TestSignalWaiter_FulfilledBeforeWait(t *testing.T) {
	w := NewSignalWaiter(context.Background(), nil)
	require.True(t, w.Wait(flowcontrol.FulfilledSignal()))
}

func TestSignalWaiter_FulfilledDuringWait(t *testing.T) {
	w := NewSignalWaiter(context.Background(), nil)
	sig, fulfill := flowcontrol.NewSignal()
	time.AfterFunc(10*time.Millisecond, fulfill)
	require.True(t, w.Wait(sig))
}

func TestSignalWaiter_ContextCanceledBeforeWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewSignalWaiter(ctx, nil)
	sig, _ := flowcontrol.NewSignal()
	require.False(t, w.Wait(sig))
	require.True(t, w.IsCanceled())
}

func TestSignalWaiter_ContextCanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	w := NewSignalWaiter(ctx, nil)
	sig, _ := flowcontrol.NewSignal()

	start := time.Now()
	require.False(t, w.Wait(sig))
	require.True(t, time.Since(start) >= 20*time.Millisecond)
}

func TestSignalWaiter_SessionCancelDuringWait(t *testing.T) {
	canceled := make(chan struct{})
	w := NewSignalWaiter(context.Background(), canceled)
	sig, _ := flowcontrol.NewSignal()
	time.AfterFunc(10*time.Millisecond, func() { close(canceled) })
	require.False(t, w.Wait(sig))
	require.True(t, w.IsCanceled())
}

func TestSignalWaiter_CancelWinsTie(t *testing.T) {
	canceled := make(chan struct{})
	close(canceled)
	w := NewSignalWaiter(context.Background(), canceled)
	// Fulfilled signal must not mask already observable cancellation.
	require.False(t, w.Wait(flowcontrol.FulfilledSignal()))
}
