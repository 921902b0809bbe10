// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package zaputil provides zap logging extensions.
package zaputil

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewStackExtractCore returns core that extracts stacktraces from error
// fields with github.com/pkg/errors error types, and appends them to
// zapcore.Entry.Stack on Write. That makes stacktraces from errors
// readable in case of console encoder.
func NewStackExtractCore(c zapcore.Core) zapcore.Core {
	return &stackExtractCore{c}
}

type stackExtractCore struct {
	zapcore.Core
}

type stackedErr interface {
	error
	StackTrace() errors.StackTrace
}

type causer interface {
	Cause() error
}

func (c *stackExtractCore) With(fields []zapcore.Field) zapcore.Core {
	var stacks strings.Builder
	fields = extractFieldStacks(&stacks, fields)
	core := c.Core.With(fields)
	if stacks.Len() == 0 {
		return &stackExtractCore{core}
	}
	// Context stacks are rare; format them as a field right away.
	return &stackExtractCore{core.With([]zapcore.Field{zap.String("stacktrace_ctx", stacks.String())})}
}

func (c *stackExtractCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if !hasStacksToExtract(fields) {
		return c.Core.Write(ent, fields)
	}
	var stacks strings.Builder
	fields = extractFieldStacks(&stacks, fields)
	if ent.Stack == "" {
		ent.Stack = stacks.String()
	} else {
		ent.Stack = ent.Stack + "\n" + stacks.String()
	}
	return c.Core.Write(ent, fields)
}

func (c *stackExtractCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func hasStacksToExtract(fields []zapcore.Field) bool {
	for _, field := range fields {
		if field.Type != zapcore.ErrorType {
			continue
		}
		if _, ok := field.Interface.(stackedErr); ok {
			return true
		}
	}
	return false
}

func extractFieldStacks(stacks *strings.Builder, fields []zapcore.Field) []zapcore.Field {
	var cloned bool
	for i, field := range fields {
		if field.Type != zapcore.ErrorType {
			continue
		}
		stacked, ok := field.Interface.(stackedErr)
		if !ok {
			continue
		}
		if !cloned {
			cloned = true
			oldFields := fields
			fields = make([]zapcore.Field, len(fields))
			copy(fields, oldFields)
		}
		if cause, ok := stacked.(causer); ok {
			field.Interface = cause.Cause()
		} else {
			field = zap.String(field.Key, stacked.Error())
		}
		fields[i] = field
		if stacks.Len() != 0 {
			stacks.WriteByte('\n')
		}
		fmt.Fprintf(stacks, "%s stacktrace:%+v", field.Key, stacked.StackTrace())
	}
	return fields
}
