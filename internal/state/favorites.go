package state

import (
	"context"
	"sync"

	"github.com/spongik/storefront/internal/models"
)

// FavoritesSource 服务端收藏列表
type FavoritesSource interface {
	Favorites(ctx context.Context) ([]models.Product, error)
}

// Favorites 收藏（按商品ID去重）
type Favorites struct {
	store *Store
	mu    sync.Mutex
	items []models.FavoriteEntry
}

func (f *Favorites) load(ctx context.Context) {
	var items []models.FavoriteEntry
	f.store.read(ctx, FavoritesKey, &items)
	seen := make(map[uint]struct{}, len(items))
	valid := make([]models.FavoriteEntry, 0, len(items))
	for _, item := range items {
		if item.ID == 0 {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		valid = append(valid, item)
	}
	f.mu.Lock()
	f.items = valid
	f.mu.Unlock()
}

// Has 是否已收藏
func (f *Favorites) Has(id uint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexOf(id) >= 0
}

// Add 加入收藏，已存在返回 false
func (f *Favorites) Add(ctx context.Context, product models.Product) bool {
	f.mu.Lock()
	if f.indexOf(product.ID) >= 0 {
		f.mu.Unlock()
		return false
	}
	entry := models.FavoriteOf(product)
	f.items = append(f.items, entry)
	snapshot := f.persistLocked(ctx)
	f.mu.Unlock()

	f.store.Events.FavoritesUpdated.Publish(snapshot)
	f.store.Events.FavoritesItemAdded.Publish(entry)
	return true
}

// Remove 取消收藏
func (f *Favorites) Remove(ctx context.Context, id uint) bool {
	f.mu.Lock()
	idx := f.indexOf(id)
	if idx < 0 {
		f.mu.Unlock()
		return false
	}
	removed := f.items[idx]
	f.items = append(f.items[:idx:idx], f.items[idx+1:]...)
	snapshot := f.persistLocked(ctx)
	f.mu.Unlock()

	f.store.Events.FavoritesUpdated.Publish(snapshot)
	f.store.Events.FavoritesItemRemoved.Publish(removed)
	return true
}

// Toggle 切换收藏状态，返回切换后的状态
func (f *Favorites) Toggle(ctx context.Context, product models.Product) bool {
	if f.Remove(ctx, product.ID) {
		return false
	}
	f.Add(ctx, product)
	return true
}

// Clear 清空收藏
func (f *Favorites) Clear(ctx context.Context) {
	f.mu.Lock()
	f.items = nil
	snapshot := f.persistLocked(ctx)
	f.mu.Unlock()

	f.store.Events.FavoritesUpdated.Publish(snapshot)
}

// All 返回收藏副本
func (f *Favorites) All() []models.FavoriteEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Count 收藏数量
func (f *Favorites) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// IDs 收藏的商品ID集合
func (f *Favorites) IDs() map[uint]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[uint]bool, len(f.items))
	for _, item := range f.items {
		ids[item.ID] = true
	}
	return ids
}

// Reconcile 登录用户以服务端收藏整体覆盖本地，失败时保留本地数据
func (f *Favorites) Reconcile(ctx context.Context, source FavoritesSource) bool {
	if source == nil || !f.store.User.IsAuthenticated() {
		return false
	}
	products, err := source.Favorites(ctx)
	if err != nil {
		f.store.log.Warnw("favorites_sync_failed", "error", err)
		return false
	}
	items := make([]models.FavoriteEntry, 0, len(products))
	seen := make(map[uint]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		items = append(items, models.FavoriteOf(p))
	}

	f.mu.Lock()
	f.items = items
	snapshot := f.persistLocked(ctx)
	f.mu.Unlock()

	f.store.Events.FavoritesUpdated.Publish(snapshot)
	return true
}

func (f *Favorites) indexOf(id uint) int {
	for i := range f.items {
		if f.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *Favorites) snapshotLocked() []models.FavoriteEntry {
	out := make([]models.FavoriteEntry, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Favorites) persistLocked(ctx context.Context) []models.FavoriteEntry {
	snapshot := f.snapshotLocked()
	f.store.write(ctx, FavoritesKey, snapshot)
	return snapshot
}
