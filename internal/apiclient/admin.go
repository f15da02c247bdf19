package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spongik/storefront/internal/models"
)

// AdminStats 后台统计
func (c *Client) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := c.Do(ctx, http.MethodGet, "/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminOrders 后台订单列表，支持 status/phone/date_from/date_to/page/page_size
func (c *Client) AdminOrders(ctx context.Context, query url.Values) (*models.OrderPage, error) {
	var page models.OrderPage
	if err := c.Do(ctx, http.MethodGet, withQuery("/admin/orders", query), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AdminOrder 后台订单详情
func (c *Client) AdminOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/admin/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AdminUpdateOrderStatus 更新订单状态与支付标记
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, id uint, input models.OrderStatusInput) (*models.Order, error) {
	var order models.Order
	if err := c.Do(ctx, http.MethodPatch, fmt.Sprintf("/admin/orders/%d", id), input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AdminProducts 后台商品列表，支持 q/category_id/in_stock/is_active/page/page_size
func (c *Client) AdminProducts(ctx context.Context, query url.Values) (*models.ProductPage, error) {
	var page models.ProductPage
	if err := c.Do(ctx, http.MethodGet, withQuery("/admin/products", query), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AdminProduct 后台商品详情
func (c *Client) AdminProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/admin/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// AdminCreateProduct 创建商品
func (c *Client) AdminCreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	var product models.Product
	if err := c.Do(ctx, http.MethodPost, "/admin/products", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// AdminUpdateProduct 更新商品
func (c *Client) AdminUpdateProduct(ctx context.Context, id uint, input models.ProductInput) (*models.Product, error) {
	var product models.Product
	if err := c.Do(ctx, http.MethodPatch, fmt.Sprintf("/admin/products/%d", id), input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// AdminDeleteProduct 删除商品
func (c *Client) AdminDeleteProduct(ctx context.Context, id uint) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), nil, nil)
}

// AdminBulkActive 批量上下架
func (c *Client) AdminBulkActive(ctx context.Context, input models.BulkActiveInput) error {
	return c.Do(ctx, http.MethodPost, "/admin/products/bulk-active", input, nil)
}

// AdminBulkPrice 批量改价
func (c *Client) AdminBulkPrice(ctx context.Context, input models.BulkPriceInput) error {
	return c.Do(ctx, http.MethodPost, "/admin/products/bulk-price", input, nil)
}

// ImageUpload 商品图片上传参数
type ImageUpload struct {
	Filename  string
	Content   []byte
	Alt       string
	SortOrder int
	IsPrimary bool
}

// AdminUploadImage 上传商品图片
func (c *Client) AdminUploadImage(ctx context.Context, productID uint, upload ImageUpload) (*models.Image, error) {
	fields := map[string]string{
		"sort_order": strconv.Itoa(upload.SortOrder),
		"is_primary": strconv.FormatBool(upload.IsPrimary),
	}
	if upload.Alt != "" {
		fields["alt"] = upload.Alt
	}
	files := []FilePart{{Field: "file", Filename: upload.Filename, Content: upload.Content}}
	var image models.Image
	endpoint := fmt.Sprintf("/admin/products/%d/images", productID)
	if err := c.DoMultipart(ctx, http.MethodPost, endpoint, fields, files, &image); err != nil {
		return nil, err
	}
	return &image, nil
}

// AdminDeleteImage 删除商品图片
func (c *Client) AdminDeleteImage(ctx context.Context, productID, imageID uint) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/admin/products/%d/images/%d", productID, imageID), nil, nil)
}

// AdminCategories 后台分类列表（含商品数）
func (c *Client) AdminCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.Do(ctx, http.MethodGet, "/admin/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// AdminCreateCategory 创建分类
func (c *Client) AdminCreateCategory(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	var category models.Category
	if err := c.Do(ctx, http.MethodPost, "/admin/categories", input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// AdminUpdateCategory 更新分类
func (c *Client) AdminUpdateCategory(ctx context.Context, id uint, input models.CategoryInput) (*models.Category, error) {
	var category models.Category
	if err := c.Do(ctx, http.MethodPatch, fmt.Sprintf("/admin/categories/%d", id), input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// AdminDeleteCategory 删除分类
func (c *Client) AdminDeleteCategory(ctx context.Context, id uint) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", id), nil, nil)
}

// AdminPromotions 全部促销
func (c *Client) AdminPromotions(ctx context.Context) ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := c.Do(ctx, http.MethodGet, "/promotions", nil, &promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

// AdminPromotion 促销详情
func (c *Client) AdminPromotion(ctx context.Context, id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/promotions/%d", id), nil, &promotion); err != nil {
		return nil, err
	}
	return &promotion, nil
}

// AdminCreatePromotion 创建促销
func (c *Client) AdminCreatePromotion(ctx context.Context, input models.PromotionInput) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := c.Do(ctx, http.MethodPost, "/promotions", input, &promotion); err != nil {
		return nil, err
	}
	return &promotion, nil
}

// AdminUpdatePromotion 更新促销
func (c *Client) AdminUpdatePromotion(ctx context.Context, id uint, input models.PromotionInput) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := c.Do(ctx, http.MethodPatch, fmt.Sprintf("/promotions/%d", id), input, &promotion); err != nil {
		return nil, err
	}
	return &promotion, nil
}

// AdminDeletePromotion 删除促销
func (c *Client) AdminDeletePromotion(ctx context.Context, id uint) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/promotions/%d", id), nil, nil)
}

// AdminUsers 用户列表
func (c *Client) AdminUsers(ctx context.Context, skip, limit int) ([]models.AdminUser, error) {
	query := url.Values{}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var users []models.AdminUser
	if err := c.Do(ctx, http.MethodGet, withQuery("/users", query), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminUser 用户详情
func (c *Client) AdminUser(ctx context.Context, id uint) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminUpdateUser 更新角色或启用状态
func (c *Client) AdminUpdateUser(ctx context.Context, id uint, input models.AdminUserInput) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := c.Do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", id), input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
