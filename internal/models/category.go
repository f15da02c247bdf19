package models

// Category 商品分类（后端返回的扁平列表）
type Category struct {
	ID          uint   `json:"id"`                    // 主键
	Slug        string `json:"slug"`                  // 唯一标识
	Name        string `json:"name"`                  // 名称
	Description string `json:"description,omitempty"` // 描述
	ImageURL    string `json:"image_url,omitempty"`   // 图片
	ParentID    *uint  `json:"parent_id"`             // 父分类ID
	SortOrder   int    `json:"sort_order"`            // 排序权重
	IsActive    bool   `json:"is_active"`             // 是否启用
	// 后台列表附带
	ProductsCount int `json:"products_count,omitempty"`
}

// CategoryInput 后台创建/更新分类
type CategoryInput struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	ParentID    *uint   `json:"parent_id,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
