package state

import (
	"context"
	"sync"

	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/pricing"
)

// Cart 购物车
type Cart struct {
	store *Store
	mu    sync.Mutex
	items []models.CartLine
}

func (c *Cart) load(ctx context.Context) {
	var items []models.CartLine
	c.store.read(ctx, CartKey, &items)
	valid := items[:0]
	for _, item := range items {
		if item.ID == 0 || item.Qty < 1 {
			continue
		}
		valid = append(valid, item)
	}
	c.mu.Lock()
	c.items = valid
	c.mu.Unlock()
}

// Add 加入购物车：已存在则累加数量并刷新价格快照，否则追加新行
func (c *Cart) Add(ctx context.Context, product models.Product, qty int) models.CartLine {
	if qty <= 0 {
		qty = 1
	}
	c.mu.Lock()
	idx := c.indexOf(product.ID)
	if idx >= 0 {
		line := &c.items[idx]
		line.Qty += qty
		applySnapshot(line, product)
		if line.Slug == "" {
			line.Slug = product.Slug
		}
		if line.Name == "" {
			line.Name = product.Name
		}
		if line.Image == "" {
			line.Image = product.CoverImage()
		}
	} else {
		line := models.CartLine{
			ID:    product.ID,
			Slug:  product.Slug,
			Name:  product.Name,
			Image: product.CoverImage(),
			Qty:   qty,
		}
		applySnapshot(&line, product)
		c.items = append(c.items, line)
		idx = len(c.items) - 1
	}
	added := c.items[idx]
	snapshot := c.persistLocked(ctx)
	c.mu.Unlock()

	c.store.Events.CartUpdated.Publish(snapshot)
	c.store.Events.CartItemAdded.Publish(ItemAdded{Product: product, Qty: qty})
	return added
}

// UpdateQty 设置数量，qty <= 0 等同删除
func (c *Cart) UpdateQty(ctx context.Context, id uint, qty int) bool {
	if qty <= 0 {
		return c.Remove(ctx, id)
	}
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.items[idx].Qty = qty
	snapshot := c.persistLocked(ctx)
	c.mu.Unlock()

	c.store.Events.CartUpdated.Publish(snapshot)
	return true
}

// Remove 删除购物车行
func (c *Cart) Remove(ctx context.Context, id uint) bool {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	removed := c.items[idx]
	c.items = append(c.items[:idx:idx], c.items[idx+1:]...)
	snapshot := c.persistLocked(ctx)
	c.mu.Unlock()

	c.store.Events.CartUpdated.Publish(snapshot)
	c.store.Events.CartItemRemoved.Publish(removed)
	return true
}

// Clear 清空购物车
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	c.items = nil
	snapshot := c.persistLocked(ctx)
	c.mu.Unlock()

	c.store.Events.CartUpdated.Publish(snapshot)
}

// Save 重新持久化当前内容
func (c *Cart) Save(ctx context.Context) {
	c.mu.Lock()
	snapshot := c.persistLocked(ctx)
	c.mu.Unlock()

	c.store.Events.CartUpdated.Publish(snapshot)
}

// Refresh 用最新商品数据刷新购物车行的价格与展示字段，数量不变
func (c *Cart) Refresh(ctx context.Context, product models.Product) bool {
	c.mu.Lock()
	idx := c.indexOf(product.ID)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	line := &c.items[idx]
	applySnapshot(line, product)
	if product.Slug != "" {
		line.Slug = product.Slug
	}
	if product.Name != "" {
		line.Name = product.Name
	}
	if img := product.CoverImage(); img != "" {
		line.Image = img
	}
	snapshot := c.persistLocked(ctx)
	c.mu.Unlock()

	c.store.Events.CartUpdated.Publish(snapshot)
	return true
}

// All 返回购物车行副本
func (c *Cart) All() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Count 商品总件数
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, item := range c.items {
		total += item.Qty
	}
	return total
}

// Total 实际单价 × 数量之和
func (c *Cart) Total() models.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total models.Money
	for _, item := range c.items {
		total = total.Add(item.Price.Mul(item.Qty))
	}
	return total
}

// Find 查找购物车行
func (c *Cart) Find(id uint) (models.CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return models.CartLine{}, false
	}
	return c.items[idx], true
}

// NeedsRefresh 判断购物车行是否缺少价格或展示字段
func NeedsRefresh(line models.CartLine) bool {
	if !line.BasePrice.Valid() || line.Slug == "" || line.Image == "" {
		return true
	}
	return !line.OldPrice.Valid() && line.DiscountPercent == nil
}

func (c *Cart) indexOf(id uint) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) snapshotLocked() []models.CartLine {
	out := make([]models.CartLine, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) persistLocked(ctx context.Context) []models.CartLine {
	snapshot := c.snapshotLocked()
	c.store.write(ctx, CartKey, snapshot)
	return snapshot
}

func applySnapshot(line *models.CartLine, product models.Product) {
	snap := pricing.SnapshotOfProduct(product)
	line.BasePrice = models.PriceOf(snap.Base())
	line.Price = pricing.Effective(snap)
	line.OldPrice = product.OldPrice
	if product.DiscountPercent != nil {
		v := *product.DiscountPercent
		line.DiscountPercent = &v
	} else {
		line.DiscountPercent = nil
	}
	line.IsFeatured = product.IsFeatured
}
