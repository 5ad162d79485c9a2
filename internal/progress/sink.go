// Package progress phát ProgressEvent tới nhiều observer theo kiểu best-effort.
// Không có thao tác nào ở đây được phép chặn hoặc trả lỗi cho collector.
package progress

import "github.com/thep200/daily-git-brief/internal/model"

type Sink interface {
	Publish(event model.ProgressEvent)
}

// Func cho phép dùng một hàm làm Sink
type Func func(event model.ProgressEvent)

func (f Func) Publish(event model.ProgressEvent) {
	f(event)
}

// Multi phát cùng một event tới mọi sink con, bỏ qua sink nil
type Multi []Sink

func (m Multi) Publish(event model.ProgressEvent) {
	for _, sink := range m {
		if sink != nil {
			sink.Publish(event)
		}
	}
}
