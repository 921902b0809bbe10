// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package coreutil

import (
	"github.com/c2h5oh/datasize"
)

const DefaultChunkSize = 64 * 1024
const MinimalChunkSize = 512

// ChunkSizeConfig SHOULD be used to configure chunk size.
// That makes chunk size configuration consistent among all chunk sources.
type ChunkSizeConfig struct {
	ChunkSize datasize.ByteSize `config:"chunk-size"`
}

func (conf ChunkSizeConfig) ChunkSizeOrDefault() int {
	chunkSize := int(conf.ChunkSize)
	if chunkSize == 0 {
		return DefaultChunkSize
	}
	if chunkSize <= MinimalChunkSize {
		return MinimalChunkSize
	}
	return chunkSize
}
