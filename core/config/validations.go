// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package config

import (
	"time"

	"github.com/c2h5oh/datasize"
	validator "gopkg.in/bluesuncorp/validator.v9"
)

func MinTimeValidation(fl validator.FieldLevel) bool {
	t, min, ok := getTimeForValidation(fl.Field().Interface(), fl.Param())
	return ok && min <= t
}

func MaxTimeValidation(fl validator.FieldLevel) bool {
	t, max, ok := getTimeForValidation(fl.Field().Interface(), fl.Param())
	return ok && t <= max
}

func getTimeForValidation(v interface{}, param string) (actual time.Duration, check time.Duration, ok bool) {
	check, err := time.ParseDuration(param)
	if err != nil {
		return
	}
	actual, ok = v.(time.Duration)
	return
}

func MinSizeValidation(fl validator.FieldLevel) bool {
	t, min, ok := getSizeForValidation(fl.Field().Interface(), fl.Param())
	return ok && min <= t
}

func MaxSizeValidation(fl validator.FieldLevel) bool {
	t, max, ok := getSizeForValidation(fl.Field().Interface(), fl.Param())
	return ok && t <= max
}

func getSizeForValidation(v interface{}, param string) (actual, check datasize.ByteSize, ok bool) {
	err := check.UnmarshalText([]byte(param))
	if err != nil {
		return
	}
	actual, ok = v.(datasize.ByteSize)
	return
}
