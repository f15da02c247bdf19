// Package state 访客的购物车、收藏与会话用户，持久化到 storage 并通过事件通知变更。
package state

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spongik/storefront/internal/events"
	"github.com/spongik/storefront/internal/logger"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/storage"

	"go.uber.org/zap"
)

// 持久化键名
const (
	CartKey      = "spongik_cart"
	FavoritesKey = "spongik_favorites"
)

// ItemAdded 加入购物车事件
type ItemAdded struct {
	Product models.Product `json:"product"`
	Qty     int            `json:"qty"`
}

// Bus 类型化事件总线
type Bus struct {
	CartUpdated          *events.Topic[[]models.CartLine]
	CartItemAdded        *events.Topic[ItemAdded]
	CartItemRemoved      *events.Topic[models.CartLine]
	FavoritesUpdated     *events.Topic[[]models.FavoriteEntry]
	FavoritesItemAdded   *events.Topic[models.FavoriteEntry]
	FavoritesItemRemoved *events.Topic[models.FavoriteEntry]
	UserUpdated          *events.Topic[*models.SessionUser]
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{
		CartUpdated:          events.NewTopic[[]models.CartLine](events.CartUpdated),
		CartItemAdded:        events.NewTopic[ItemAdded](events.CartItemAdded),
		CartItemRemoved:      events.NewTopic[models.CartLine](events.CartItemRemoved),
		FavoritesUpdated:     events.NewTopic[[]models.FavoriteEntry](events.FavoritesUpdated),
		FavoritesItemAdded:   events.NewTopic[models.FavoriteEntry](events.FavoritesItemAdded),
		FavoritesItemRemoved: events.NewTopic[models.FavoriteEntry](events.FavoritesItemRemoved),
		UserUpdated:          events.NewTopic[*models.SessionUser](events.UserUpdated),
	}
}

// Store 访客状态
type Store struct {
	Cart      *Cart
	Favorites *Favorites
	User      *User
	Events    *Bus

	backend storage.Backend
	log     *zap.SugaredLogger
}

// Option 状态选项
type Option func(*Store)

// WithLogger 指定日志
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithBus 复用外部事件总线
func WithBus(bus *Bus) Option {
	return func(s *Store) {
		if bus != nil {
			s.Events = bus
		}
	}
}

// New 创建访客状态，backend 为 nil 时仅保存在内存
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		Events:  NewBus(),
		backend: backend,
		log:     logger.Named("state"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Cart = &Cart{store: s}
	s.Favorites = &Favorites{store: s}
	s.User = &User{store: s}
	return s
}

// Load 从存储读取购物车与收藏，失败时视为空
func (s *Store) Load(ctx context.Context) {
	s.Cart.load(ctx)
	s.Favorites.load(ctx)
}

func (s *Store) read(ctx context.Context, key string, dest interface{}) {
	if s.backend == nil {
		return
	}
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warnw("state_load_failed", "key", key, "error", err)
		}
		return
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warnw("state_decode_failed", "key", key, "error", err)
	}
}

func (s *Store) write(ctx context.Context, key string, value interface{}) {
	if s.backend == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		s.log.Warnw("state_encode_failed", "key", key, "error", err)
		return
	}
	if err := s.backend.Set(ctx, key, payload); err != nil {
		s.log.Warnw("state_persist_failed", "key", key, "error", err)
	}
}
