package report

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Priya-it/armeria/core"
	"github.com/Priya-it/armeria/core/datasink"
)

func TestNewJSONLinesAggregator(t *testing.T) {
	samples := []Sample{
		{Tag: "0", Chunks: 3, Bytes: 35, Result: "Closed"},
		{Tag: "1", Chunks: 1, Bytes: 10, Result: "Failed", Error: "stream failed (source): boom"},
		{Tag: "2", Result: "Closed"},
	}

	conf := DefaultJSONLinesAggregatorConfig()
	sink := &datasink.Buffer{}
	conf.Sink = sink
	testee := NewJSONLinesAggregator(conf)
	ctx, cancel := context.WithCancel(context.Background())

	runErr := make(chan error)
	go func() {
		runErr <- testee.Run(ctx, core.AggregatorDeps{Log: zap.L()})
	}()

	for _, sample := range samples {
		testee.Report(sample)
	}
	cancel()
	err := <-runErr
	require.NoError(t, err)

	for _, expected := range samples {
		var actual Sample
		line, err := sink.ReadBytes('\n')
		require.NoError(t, err)
		err = json.Unmarshal(line, &actual)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}

	assert.Zero(t, sink.Len())
}
