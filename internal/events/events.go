package events

import (
	"sync"

	"github.com/spongik/storefront/internal/logger"
)

// 事件名称
const (
	CartUpdated          = "cart:updated"
	CartItemAdded        = "cart:item-added"
	CartItemRemoved      = "cart:item-removed"
	FavoritesUpdated     = "favorites:updated"
	FavoritesItemAdded   = "favorites:item-added"
	FavoritesItemRemoved = "favorites:item-removed"
	UserUpdated          = "user:updated"
)

// Topic 单一事件的类型化订阅列表
type Topic[T any] struct {
	name     string
	mu       sync.RWMutex
	seq      int
	handlers []subscription[T]
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// NewTopic 创建事件主题
func NewTopic[T any](name string) *Topic[T] {
	return &Topic[T]{name: name}
}

// Name 事件名称
func (t *Topic[T]) Name() string {
	return t.name
}

// Subscribe 订阅事件，返回取消订阅函数
func (t *Topic[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	t.mu.Lock()
	t.seq++
	id := t.seq
	t.handlers = append(t.handlers, subscription[T]{id: id, fn: fn})
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { t.remove(id) })
	}
}

// Len 当前订阅数
func (t *Topic[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.handlers)
}

// Publish 按订阅顺序同步派发，单个处理器 panic 不影响其余处理器
func (t *Topic[T]) Publish(payload T) {
	t.mu.RLock()
	handlers := make([]subscription[T], len(t.handlers))
	copy(handlers, t.handlers)
	t.mu.RUnlock()

	for _, h := range handlers {
		t.dispatch(h.fn, payload)
	}
}

func (t *Topic[T]) dispatch(fn func(T), payload T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("event_handler_panic", "event", t.name, "panic", r)
		}
	}()
	fn(payload)
}

func (t *Topic[T]) remove(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, h := range t.handlers {
		if h.id == id {
			t.handlers = append(t.handlers[:i:i], t.handlers[i+1:]...)
			return
		}
	}
}
