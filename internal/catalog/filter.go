package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spongik/storefront/internal/i18n"
)

// 排序方式
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortPopular   = "popular"
	SortName      = "name"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

var validSorts = map[string]bool{
	SortNewest:    true,
	SortPriceAsc:  true,
	SortPriceDesc: true,
	SortPopular:   true,
	SortName:      true,
}

// Filter 商品列表筛选状态
type Filter struct {
	Categories []string `json:"category"`
	Query      string   `json:"q"`
	MinPrice   *int     `json:"min_price"`
	MaxPrice   *int     `json:"max_price"`
	InStock    bool     `json:"in_stock"`
	OnSale     bool     `json:"on_sale"`
	Sort       string   `json:"sort"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
}

// DefaultFilter 默认筛选
func DefaultFilter(pageSize int) Filter {
	return Filter{
		Categories: []string{},
		InStock:    true,
		Sort:       SortNewest,
		Page:       1,
		PageSize:   clampPageSize(pageSize),
	}
}

// ParseFilter 从 URL 查询参数解析，category 可重复
func ParseFilter(values url.Values, pageSize int) Filter {
	f := DefaultFilter(pageSize)
	for _, raw := range values["category"] {
		for _, slug := range strings.Split(raw, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				f.Categories = append(f.Categories, slug)
			}
		}
	}
	f.Categories = newOrderedSet(f.Categories).items()
	f.Query = strings.TrimSpace(values.Get("q"))
	f.MinPrice = parseBound(values.Get("min_price"))
	f.MaxPrice = parseBound(values.Get("max_price"))
	f.InStock = !strings.EqualFold(strings.TrimSpace(values.Get("in_stock")), "false")
	f.OnSale = strings.EqualFold(strings.TrimSpace(values.Get("on_sale")), "true")
	if sort := strings.TrimSpace(values.Get("sort")); validSorts[sort] {
		f.Sort = sort
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		f.Page = page
	}
	if size, err := strconv.Atoi(values.Get("page_size")); err == nil && size > 0 {
		f.PageSize = clampPageSize(size)
	}
	return f.Normalize()
}

// Normalize 修正非法取值
func (f Filter) Normalize() Filter {
	if f.Categories == nil {
		f.Categories = []string{}
	}
	if !validSorts[f.Sort] {
		f.Sort = SortNewest
	}
	if f.Page < 1 {
		f.Page = 1
	}
	f.PageSize = clampPageSize(f.PageSize)
	if f.MinPrice != nil && *f.MinPrice < 0 {
		f.MinPrice = nil
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		f.MaxPrice = nil
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		lo, hi := *f.MaxPrice, *f.MinPrice
		f.MinPrice, f.MaxPrice = &lo, &hi
	}
	return f
}

// Values 序列化为 URL 参数，默认值省略，in_stock=false 显式写出
func (f Filter) Values() url.Values {
	v := url.Values{}
	for _, slug := range f.Categories {
		v.Add("category", slug)
	}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	if f.MinPrice != nil {
		v.Set("min_price", strconv.Itoa(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		v.Set("max_price", strconv.Itoa(*f.MaxPrice))
	}
	if !f.InStock {
		v.Set("in_stock", "false")
	}
	if f.OnSale {
		v.Set("on_sale", "true")
	}
	if f.Sort != "" && f.Sort != SortNewest {
		v.Set("sort", f.Sort)
	}
	if f.Page > 1 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 && f.PageSize != DefaultPageSize {
		v.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return v
}

// Encode URL 查询字符串
func (f Filter) Encode() string {
	return f.Values().Encode()
}

// APIValues 后端商品列表查询参数
func (f Filter) APIValues() url.Values {
	v := url.Values{}
	for _, slug := range f.Categories {
		v.Add("category", slug)
	}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	if f.MinPrice != nil {
		v.Set("min_price", strconv.Itoa(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		v.Set("max_price", strconv.Itoa(*f.MaxPrice))
	}
	if f.InStock {
		v.Set("in_stock", "true")
	}
	if f.OnSale {
		v.Set("on_sale", "true")
	}
	if f.Sort != "" {
		v.Set("sort", f.Sort)
	}
	v.Set("page", strconv.Itoa(max(f.Page, 1)))
	v.Set("page_size", strconv.Itoa(clampPageSize(f.PageSize)))
	return v
}

// Reset 恢复默认筛选（保留每页数量）
func (f Filter) Reset() Filter {
	return DefaultFilter(f.PageSize)
}

// Chip 已生效筛选标签
type Chip struct {
	Kind  string `json:"kind"` // category / price / in_stock / on_sale / q
	Value string `json:"value"`
	Label string `json:"label"`
}

// Chips 已生效筛选标签，未知分类不显示
func (f Filter) Chips(tree *Tree, locale string) []Chip {
	var chips []Chip
	for _, slug := range f.Categories {
		if c, ok := tree.Lookup(slug); ok {
			chips = append(chips, Chip{Kind: "category", Value: slug, Label: c.Name})
		}
	}
	if f.Query != "" {
		chips = append(chips, Chip{Kind: "q", Value: f.Query, Label: i18n.Sprintf(locale, "filter.query", f.Query)})
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		lo, hi := "0", "∞"
		if f.MinPrice != nil {
			lo = strconv.Itoa(*f.MinPrice)
		}
		if f.MaxPrice != nil {
			hi = strconv.Itoa(*f.MaxPrice)
		}
		chips = append(chips, Chip{Kind: "price", Value: "price", Label: i18n.Sprintf(locale, "filter.price", lo, hi)})
	}
	if f.InStock {
		chips = append(chips, Chip{Kind: "in_stock", Value: "in_stock", Label: i18n.T(locale, "filter.in_stock")})
	}
	if f.OnSale {
		chips = append(chips, Chip{Kind: "on_sale", Value: "on_sale", Label: i18n.T(locale, "filter.on_sale")})
	}
	return chips
}

// ActiveCount 已生效筛选数量
func (f Filter) ActiveCount(tree *Tree) int {
	return len(f.Chips(tree, i18n.DefaultLocale))
}

// RemoveChip 移除标签对应的筛选，页码重置为 1
func (f Filter) RemoveChip(kind, value string) Filter {
	switch kind {
	case "category":
		kept := make([]string, 0, len(f.Categories))
		for _, slug := range f.Categories {
			if slug != value {
				kept = append(kept, slug)
			}
		}
		f.Categories = kept
	case "q":
		f.Query = ""
	case "price":
		f.MinPrice, f.MaxPrice = nil, nil
	case "in_stock":
		f.InStock = true
	case "on_sale":
		f.OnSale = false
	}
	f.Page = 1
	return f
}

func parseBound(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return nil
		}
		v = int(f)
	}
	if v < 0 {
		return nil
	}
	return &v
}

func clampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
