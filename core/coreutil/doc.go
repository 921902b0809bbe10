// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package coreutil provides utilities for core interfaces usage and
// implementation.
package coreutil
