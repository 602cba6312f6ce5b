package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.ErrorContains(t, err, "brokers are required")
}

func TestNewProducerConfiguresWriter(t *testing.T) {
	p, err := NewProducer(
		WithBrokers([]string{"localhost:9092"}),
		WithCompression("lz4"),
		WithRequiredAcks(-1),
		WithAsync(true),
		WithRegisterer(nil),
	)
	require.NoError(t, err)
	defer p.Close()

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, kafka.Lz4, w.Compression)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.True(t, w.Async)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Gzip, parseCompression("gzip"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Snappy, parseCompression(""))
}

func TestProducerConfigValidate(t *testing.T) {
	valid := DefaultProducerConfig()
	valid.Brokers = []string{"localhost:9092"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*ProducerConfig)
		want   string
	}{
		{"acks", func(c *ProducerConfig) { c.RequiredAcks = 2 }, "required acks"},
		{"compression", func(c *ProducerConfig) { c.Compression = "brotli" }, "unknown compression"},
		{"attempts", func(c *ProducerConfig) { c.MaxAttempts = 0 }, "max attempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.ErrorContains(t, c.Validate(), tt.want)
		})
	}
}
