package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thep200/daily-git-brief/internal/model"
	"github.com/thep200/daily-git-brief/pkg/log"
)

// MessageKey là key của mọi message progress trên Kafka
const MessageKey = "progress"

type publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// ForwardToKafka đăng ký một subscriber và đẩy từng event sang Kafka
// cho tới khi ctx bị hủy hoặc broadcaster đóng. Lỗi gửi chỉ được log.
func ForwardToKafka(ctx context.Context, b *Broadcaster, producer publisher, logger log.Logger) {
	sub := b.Subscribe()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			if err := producer.Publish(ctx, MessageKey, event); err != nil {
				logger.Warn(ctx, "Failed to forward progress event to kafka: %v", err)
			}
		}
	}
}

// DecodeEvent là handler phía consumer cho message có key MessageKey
func DecodeEvent(data []byte) (model.ProgressEvent, error) {
	var event model.ProgressEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return model.ProgressEvent{}, fmt.Errorf("failed to unmarshal progress event: %w", err)
	}
	return event, nil
}
