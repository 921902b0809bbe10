// Copyright (c) 2019 Yandex LLC. All rights reserved.
// Use of this source code is governed by a MPL 2.0
// license that can be found in the LICENSE file.

package config

import (
	"reflect"

	"github.com/c2h5oh/datasize"
)

// StringToDataSizeHook converts string to datasize.ByteSize, so sizes
// can be configured as "512kb" or "4mib".
func StringToDataSizeHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if f.Kind() != reflect.String {
		return data, nil
	}
	if t != reflect.TypeOf(datasize.B) {
		return data, nil
	}
	var size datasize.ByteSize
	err := size.UnmarshalText([]byte(data.(string)))
	return size, err
}
