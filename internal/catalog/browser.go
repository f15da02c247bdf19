package catalog

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/spongik/storefront/internal/models"
)

// ErrSuperseded 请求结果已被更新的请求取代
var ErrSuperseded = errors.New("catalog: request superseded")

// ProductSource 商品列表数据源
type ProductSource interface {
	Products(ctx context.Context, query url.Values) (*models.ProductPage, error)
}

// View 浏览器当前状态快照
type View struct {
	Filter  Filter  `json:"filter"`
	Listing Listing `json:"listing"`
}

// Browser 单个访客的目录浏览状态
// 筛选代数只由 Apply 递增：旧筛选的结果（含加载更多）一律丢弃，
// 加载更多不会取消正在进行的 Apply
type Browser struct {
	mu       sync.Mutex
	source   ProductSource
	filter   Filter
	listing  Listing
	gen      uint64
	applying int
	moreSeq  uint64
}

// NewBrowser 创建目录浏览状态
func NewBrowser(source ProductSource, pageSize int) *Browser {
	return &Browser{
		source: source,
		filter: DefaultFilter(pageSize),
	}
}

// Apply 应用新筛选：页码重置为 1，整体重新加载
func (b *Browser) Apply(ctx context.Context, filter Filter) (View, error) {
	filter = filter.Normalize()
	filter.Page = 1

	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.applying++
	b.filter = filter
	b.mu.Unlock()

	page, err := b.source.Products(ctx, filter.APIValues())

	b.mu.Lock()
	defer b.mu.Unlock()
	b.applying--
	if gen != b.gen {
		return b.viewLocked(), ErrSuperseded
	}
	if err != nil {
		b.listing = Listing{}
		return b.viewLocked(), err
	}
	b.listing.Replace(*page, filter.PageSize)
	return b.viewLocked(), nil
}

// LoadMore 追加下一页，其余筛选不变
// 有 Apply 未完成时直接返回 ErrSuperseded；返回时筛选已变化或已有更新的加载更多，结果丢弃
func (b *Browser) LoadMore(ctx context.Context) (View, error) {
	b.mu.Lock()
	if b.applying > 0 {
		view := b.viewLocked()
		b.mu.Unlock()
		return view, ErrSuperseded
	}
	if b.listing.Loaded && !b.listing.HasMore {
		view := b.viewLocked()
		b.mu.Unlock()
		return view, nil
	}
	gen := b.gen
	b.moreSeq++
	seq := b.moreSeq
	next := b.filter
	next.Page = b.filter.Page + 1
	if !b.listing.Loaded {
		next.Page = 1
	}
	b.mu.Unlock()

	page, err := b.source.Products(ctx, next.APIValues())

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen || seq != b.moreSeq {
		return b.viewLocked(), ErrSuperseded
	}
	if err != nil {
		return b.viewLocked(), err
	}
	if next.Page == 1 {
		b.listing.Replace(*page, next.PageSize)
	} else {
		b.listing.Append(*page, next.PageSize)
	}
	b.filter.Page = next.Page
	return b.viewLocked(), nil
}

// View 当前状态
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

// Filter 当前筛选
func (b *Browser) Filter() Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

func (b *Browser) viewLocked() View {
	f := b.filter
	f.Categories = append([]string{}, b.filter.Categories...)
	return View{Filter: f, Listing: b.listing.Clone()}
}
