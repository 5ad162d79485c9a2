package progress

import (
	"sync"
	"sync/atomic"

	"github.com/thep200/daily-git-brief/internal/model"
)

const DefaultBuffer = 64

// Broadcaster gửi mỗi event tới mọi subscriber. Mỗi subscriber có hàng đợi riêng
// giới hạn kích thước; hàng đợi đầy thì event bị bỏ và được đếm lại.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
	closed bool
}

type Subscription struct {
	C       <-chan model.ProgressEvent
	ch      chan model.ProgressEvent
	dropped atomic.Int64
	owner   *Broadcaster
	once    sync.Once
}

func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broadcaster{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Subscribe trên một broadcaster đã đóng trả về subscription đã đóng sẵn
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan model.ProgressEvent, b.buffer)
	sub := &Subscription{C: ch, ch: ch, owner: b}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.once.Do(func() { close(ch) })
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

func (b *Broadcaster) Publish(event model.ProgressEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
			sub.dropped.Add(1)
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close đóng mọi subscription; Publish sau đó không làm gì
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		sub.once.Do(func() { close(sub.ch) })
		delete(b.subs, sub)
	}
}

func (b *Broadcaster) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		sub.once.Do(func() { close(sub.ch) })
	}
}

// Close hủy đăng ký và đóng kênh C
func (s *Subscription) Close() {
	s.owner.remove(s)
}

// Dropped là số event bị bỏ vì hàng đợi đầy
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}
