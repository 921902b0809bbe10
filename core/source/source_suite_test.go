package source

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/Priya-it/armeria/core/coretest"
	"github.com/Priya-it/armeria/core/coreutil"
	"github.com/Priya-it/armeria/lib/ginkgoutil"
)

func TestSourceSuite(t *testing.T) {
	ginkgoutil.RunSuite(t, "Source Suite")
}

var _ = Describe("config decode", func() {
	It("buffer", func() {
		var conf BufferConfig
		coretest.DecodeAndValidate(`
data: some payload
chunk-size: 1kb`, &conf)
		Expect(conf.Data).To(Equal("some payload"))
		Expect(conf.ChunkSizeOrDefault()).To(Equal(1024))
	})

	It("buffer default chunk size", func() {
		var conf BufferConfig
		coretest.Decode(`data: x`, &conf)
		Expect(conf.ChunkSizeOrDefault()).To(Equal(coreutil.DefaultChunkSize))
	})

	It("file", func() {
		var conf FileConfig
		coretest.DecodeAndValidate(`
path: /var/streams/data.bin
chunk-size: 512b`, &conf)
		Expect(conf.Path).To(Equal("/var/streams/data.bin"))
		Expect(conf.ChunkSizeOrDefault()).To(Equal(coreutil.MinimalChunkSize))
	})
})
