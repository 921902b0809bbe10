// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package datasink provides core.DataSink implementations.
package datasink

import (
	"bytes"
	"io"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/lib/ioutil2"
)

// Buffer is in-memory data sink for tests.
type Buffer struct {
	bytes.Buffer
	ioutil2.NopCloser
}

var _ core.DataSink = &Buffer{}

func (b *Buffer) OpenSink() (wc io.WriteCloser, err error) {
	return b, nil
}

func NewBuffer() *Buffer {
	return &Buffer{}
}
