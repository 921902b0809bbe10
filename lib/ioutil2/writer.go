package ioutil2

import (
	"io"
)

// NewCallbackWriter returns writer that calls onWrite before every write
// to w. Useful to observe flushes of wrapped buffered writers.
func NewCallbackWriter(w io.Writer, onWrite func()) WriterFunc {
	return func(p []byte) (n int, err error) {
		onWrite()
		return w.Write(p)
	}
}
