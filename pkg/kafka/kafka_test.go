package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/daily-git-brief/cfg"
	"github.com/thep200/daily-git-brief/pkg/log"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type fakeReader struct {
	messages []kafka.Message
	cancel   context.CancelFunc
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.messages) == 0 {
		f.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := f.messages[0]
	f.messages = f.messages[1:]
	return msg, nil
}

func (f *fakeReader) Close() error { return nil }

func testDeps(t *testing.T) (*cfg.Config, log.Logger) {
	t.Helper()
	loader, err := cfg.NewMockLoader(func(c *cfg.Config) { c.Kafka.Brokers = []string{"localhost:9092"} })
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)
	logger, err := log.NewCslLogger(log.WithWriter(io.Discard))
	require.NoError(t, err)
	return config, logger
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, logger := testDeps(t)
	_, err := NewProducer(&cfg.Config{}, logger, "topic")
	assert.Error(t, err)

	_, err = NewConsumer(&cfg.Config{}, logger, "topic", "group")
	assert.Error(t, err)
}

func TestProducer_Publish(t *testing.T) {
	config, logger := testDeps(t)
	writer := &fakeWriter{}
	producer := &Producer{Config: config, Logger: logger, writer: writer}

	require.NoError(t, producer.Publish(context.Background(), "progress", map[string]int{"current_count": 3}))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "progress", string(writer.messages[0].Key))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, 3, decoded["current_count"])

	writer.err = errors.New("broker down")
	assert.Error(t, producer.Publish(context.Background(), "progress", 1))

	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)
}

func TestConsumer_DispatchesByKey(t *testing.T) {
	config, logger := testDeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		messages: []kafka.Message{
			{Key: []byte("progress"), Value: []byte(`"a"`)},
			{Key: []byte("unknown"), Value: []byte(`"b"`)},
			{Key: []byte("progress"), Value: []byte(`"c"`)},
		},
		cancel: cancel,
	}
	consumer := &Consumer{
		Config:   config,
		Logger:   logger,
		topic:    "collection-progress",
		reader:   reader,
		handlers: make(map[string]func([]byte) error),
	}

	var got []string
	consumer.RegisterHandler("progress", func(data []byte) error {
		got = append(got, string(data))
		return nil
	})

	require.NoError(t, consumer.Start(ctx))
	assert.Equal(t, []string{`"a"`, `"c"`}, got)
}
