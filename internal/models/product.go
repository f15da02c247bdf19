package models

// Product 商品（后端只读数据）
type Product struct {
	ID              uint    `json:"id"`                         // 主键
	Slug            string  `json:"slug"`                       // 唯一标识
	Name            string  `json:"name"`                       // 名称
	Brand           string  `json:"brand,omitempty"`            // 品牌
	SKU             string  `json:"sku,omitempty"`              // 货号
	Price           Price   `json:"price"`                      // 基础价格
	OldPrice        Price   `json:"old_price"`                  // 划线价（直接降价）
	FinalPrice      Price   `json:"final_price"`                // 活动后价格（后端计算）
	DiscountPercent *int    `json:"discount_percent,omitempty"` // 后端折扣百分比
	InStock         bool    `json:"in_stock"`                   // 是否有货
	IsFeatured      bool    `json:"is_featured"`                // 是否推荐
	IsActive        bool    `json:"is_active"`                  // 是否上架
	CategoryID      *uint   `json:"category_id,omitempty"`      // 分类ID
	CategoryName    string  `json:"category_name,omitempty"`    // 分类名称
	PrimaryImage    string  `json:"primary_image,omitempty"`    // 主图
	Description     string  `json:"description,omitempty"`      // 描述（详情接口）
	Images          []Image `json:"images,omitempty"`           // 图片（详情接口）
}

// Image 商品图片
type Image struct {
	ID        uint   `json:"id"`
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// CoverImage 返回展示用主图
func (p Product) CoverImage() string {
	if p.PrimaryImage != "" {
		return p.PrimaryImage
	}
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

// ProductPage 商品分页结果
type ProductPage struct {
	Items    []Product `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Pages    int       `json:"pages"`
	MinPrice Price     `json:"min_price"`
	MaxPrice Price     `json:"max_price"`
}

// ProductInput 后台创建/更新商品
type ProductInput struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *Money  `json:"price,omitempty"`
	OldPrice    *Money  `json:"old_price,omitempty"`
	InStock     *bool   `json:"in_stock,omitempty"`
	SKU         *string `json:"sku,omitempty"`
	CategoryID  *uint   `json:"category_id,omitempty"`
	Brand       *string `json:"brand,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsFeatured  *bool   `json:"is_featured,omitempty"`
}

// BulkActiveInput 批量上下架
type BulkActiveInput struct {
	ProductIDs []uint `json:"product_ids" binding:"required,min=1"`
	IsActive   bool   `json:"is_active"`
}

// BulkPriceInput 批量调价
type BulkPriceInput struct {
	Scope      string `json:"scope" binding:"required,oneof=all category product_ids"`
	CategoryID *uint  `json:"category_id,omitempty"`
	ProductIDs []uint `json:"product_ids,omitempty"`
	Operation  string `json:"operation" binding:"required,oneof=increase decrease set"`
	ValueType  string `json:"value_type" binding:"required,oneof=percent fixed"`
	Value      Money  `json:"value"`
}
