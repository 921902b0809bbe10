// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package report implements stream result aggregation: access log style
// per-stream samples encoded to a data sink.
package report

// Sample is one stream report: what was written and how the stream
// terminated.
type Sample struct {
	Tag       string `json:"tag,omitempty"`
	Chunks    int    `json:"chunks"`
	Bytes     int64  `json:"bytes"`
	ElapsedUs int64  `json:"elapsed_us"`
	Result    string `json:"result"`
	Error     string `json:"error,omitempty"`
}
