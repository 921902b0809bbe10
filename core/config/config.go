// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package config provides helpers to decode abstract configuration,
// usually parsed from YAML, into config structs with `config` tags.
package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const TagName = "config"

// Decode decodes conf to result. Doesn't zero fields.
func Decode(conf interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(newDecoderConfig(result))
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(decoder.Decode(conf))
}

func DecodeAndValidate(conf interface{}, result interface{}) error {
	err := Decode(conf, result)
	if err != nil {
		return err
	}
	return Validate(result)
}

// Map maps with overwrite fields from src to dst.
// src field names should be subset of dst fields.
// dst should be struct pointer. src should be struct or struct pointer.
// Example: you need to configure only some subset of fields of struct
// Multi; in such case you can form from this subset of fields struct
// Single, decode config into it, and map it on Multi.
func Map(dst, src interface{}) {
	conf := &mapstructure.DecoderConfig{
		ErrorUnused: true,
		ZeroFields:  true,
		Result:      dst,
	}
	d, err := mapstructure.NewDecoder(conf)
	if err != nil {
		panic(err)
	}
	err = d.Decode(src)
	if err != nil {
		panic(err)
	}
}

func newDecoderConfig(result interface{}) *mapstructure.DecoderConfig {
	compileHooks()
	return &mapstructure.DecoderConfig{
		DecodeHook:       compiledHook,
		ErrorUnused:      true,
		ZeroFields:       false,
		WeaklyTypedInput: false,
		TagName:          TagName,
		Result:           result,
	}
}

type TypeHook mapstructure.DecodeHookFuncType
type KindHook mapstructure.DecodeHookFuncKind

// AddTypeHook returns value to allow `var _ = AddTypeHook(xxx)`.
func AddTypeHook(hook TypeHook) (_ struct{}) {
	addHook(hook)
	return
}

func AddKindHook(hook KindHook) (_ struct{}) {
	addHook(hook)
	return
}

func DefaultHooks() []mapstructure.DecodeHookFunc {
	return []mapstructure.DecodeHookFunc{
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		StringToDataSizeHook,
	}
}

var (
	hooks            = DefaultHooks()
	hooksNeedCompile = true
	compiledHook     mapstructure.DecodeHookFunc
)

func addHook(hook mapstructure.DecodeHookFunc) {
	hooks = append(hooks, hook)
	hooksNeedCompile = true
}

func compileHooks() {
	if hooksNeedCompile {
		compiledHook = mapstructure.ComposeDecodeHookFunc(hooks...)
		hooksNeedCompile = false
	}
}
