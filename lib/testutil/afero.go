// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package testutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ReadFileString(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, name)
	require.NoError(t, err)
	return string(data)
}

func AssertFileEqual(t *testing.T, fs afero.Fs, name string, expected string) {
	t.Helper()
	assert.Equal(t, expected, ReadFileString(t, fs, name))
}
