// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package source

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/core/coreutil"
)

type FileConfig struct {
	Path                     string `config:"path" validate:"required"`
	coreutil.ChunkSizeConfig `config:",squash"`
}

// NewFile returns source streaming the file at conf.Path chunk by
// chunk. The file is opened lazily on first Next, so construction
// never touches the filesystem.
func NewFile(fs afero.Fs, conf FileConfig) core.ChunkSource {
	return &fileSource{fs: fs, conf: conf}
}

type fileSource struct {
	fs     afero.Fs
	conf   FileConfig
	opened *readerSource
}

func (s *fileSource) Next(ctx context.Context, index int) (core.Chunk, bool, error) {
	if s.opened == nil {
		file, err := s.fs.Open(s.conf.Path)
		if err != nil {
			return core.Chunk{}, false, errors.WithMessage(err, "file open failed")
		}
		s.opened = &readerSource{r: file, chunkSize: s.conf.ChunkSizeOrDefault()}
	}
	return s.opened.Next(ctx, index)
}

func (s *fileSource) Close() error {
	if s.opened == nil {
		return nil
	}
	return s.opened.Close()
}
