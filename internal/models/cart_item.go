package models

// CartLine 购物车行（JSON 字段与浏览器端持久化格式一致）
type CartLine struct {
	ID              uint   `json:"id"`                         // 商品ID
	Slug            string `json:"slug"`                       // 商品标识
	Name            string `json:"name"`                       // 商品名称
	Image           string `json:"image"`                      // 图片
	BasePrice       Price  `json:"base_price"`                 // 基础单价
	Price           Money  `json:"price"`                      // 实际单价
	OldPrice        Price  `json:"old_price"`                  // 划线价
	DiscountPercent *int   `json:"discount_percent,omitempty"` // 折扣百分比
	IsFeatured      bool   `json:"is_featured"`                // 是否推荐
	Qty             int    `json:"qty"`                        // 数量
}

// FavoriteEntry 收藏条目
type FavoriteEntry struct {
	ID    uint   `json:"id"`    // 商品ID
	Slug  string `json:"slug"`  // 商品标识
	Name  string `json:"name"`  // 商品名称
	Price Money  `json:"price"` // 单价
	Image string `json:"image"` // 图片
}

// FavoriteOf 从商品生成收藏条目
func FavoriteOf(p Product) FavoriteEntry {
	return FavoriteEntry{
		ID:    p.ID,
		Slug:  p.Slug,
		Name:  p.Name,
		Price: p.FinalPrice.Or(p.Price.Money()),
		Image: p.CoverImage(),
	}
}
