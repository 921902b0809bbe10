// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package config

import (
	"github.com/pkg/errors"
	validator "gopkg.in/bluesuncorp/validator.v9"
)

var validations = []struct {
	key string
	val validator.Func
}{
	{"min-time", MinTimeValidation},
	{"max-time", MaxTimeValidation},
	{"min-size", MinSizeValidation},
	{"max-size", MaxSizeValidation},
}

var defaultValidator = newValidator()

func Validate(value interface{}) error {
	return errors.WithStack(defaultValidator.Struct(value))
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.SetTagName("validate")
	for _, val := range validations {
		_ = validate.RegisterValidation(val.key, val.val)
	}
	return validate
}
