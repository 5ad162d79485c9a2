package limiter

import (
	"context"
	"sync"
	"time"
)

// Giới hạn số lượng request trong một cửa sổ trượt (mặc định 1 giây)
type RateLimiter struct {
	requestTimes []time.Time
	maxRequests  int
	window       time.Duration
	pollDelay    time.Duration
	now          func() time.Time
	mu           sync.Mutex
}

// maxRequests <= 0 nghĩa là không giới hạn
func NewRateLimiter(maxRequests int, pollDelay time.Duration) *RateLimiter {
	if pollDelay <= 0 {
		pollDelay = 50 * time.Millisecond
	}
	return &RateLimiter{
		requestTimes: make([]time.Time, 0, max(maxRequests, 0)),
		maxRequests:  maxRequests,
		window:       time.Second,
		pollDelay:    pollDelay,
		now:          time.Now,
	}
}

// Allow kiểm tra xem có thể thực hiện request mới hay không
func (r *RateLimiter) Allow() bool {
	if r.maxRequests <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	windowStart := now.Add(-r.window)

	// Xóa các request đã ra khỏi cửa sổ
	validTimes := r.requestTimes[:0]
	for _, t := range r.requestTimes {
		if t.After(windowStart) {
			validTimes = append(validTimes, t)
		}
	}
	r.requestTimes = validTimes

	if len(r.requestTimes) < r.maxRequests {
		r.requestTimes = append(r.requestTimes, now)
		return true
	}

	return false
}

// Wait chờ tới khi Allow trả về true hoặc ctx bị hủy
func (r *RateLimiter) Wait(ctx context.Context) error {
	for !r.Allow() {
		timer := time.NewTimer(r.pollDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
