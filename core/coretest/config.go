// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

// Package coretest provides test doubles and helpers for core interfaces.
package coretest

import (
	"github.com/onsi/gomega"

	"github.com/Priya-it/armeria/core/config"
	"github.com/Priya-it/armeria/lib/ginkgoutil"
)

func Decode(data string, result interface{}) {
	conf := ginkgoutil.ParseYAML(data)
	err := config.Decode(conf, result)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
}

func DecodeAndValidate(data string, result interface{}) {
	Decode(data, result)
	err := config.Validate(result)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
}
