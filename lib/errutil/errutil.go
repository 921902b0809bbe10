// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package errutil

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

func Join(err1, err2 error) error {
	switch {
	case err1 == nil:
		return err2
	case err2 == nil:
		return err1
	default:
		return multierror.Append(err1, err2)
	}
}

// IsCtxError reports whether err is ctx.Err() or caused by it, in terms
// of github.com/pkg/errors.Cause. nil error counts as ctx error: Run
// returning nil on cancel is the recommended convention.
func IsCtxError(ctx context.Context, err error) bool {
	return !IsNotCtxError(ctx, err)
}

func IsNotCtxError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	select {
	case <-ctx.Done():
		if ctx.Err() == errors.Cause(err) { // Support github.com/pkg/errors wrapping
			return false
		}
	default:
	}
	return true
}
