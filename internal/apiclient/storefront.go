package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spongik/storefront/internal/models"
)

// Products 商品列表，query 由 catalog.Filter.APIValues 生成
func (c *Client) Products(ctx context.Context, query url.Values) (*models.ProductPage, error) {
	var page models.ProductPage
	if err := c.Do(ctx, http.MethodGet, withQuery("/products", query), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Product 商品详情
func (c *Client) Product(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, &APIError{Status: http.StatusNotFound, Message: "product slug is empty"}
	}
	var product models.Product
	if err := c.Do(ctx, http.MethodGet, "/products/"+url.PathEscape(slug), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories 分类扁平列表
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.Do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Login 登录，成功后后端会话 cookie 写入 jar
func (c *Client) Login(ctx context.Context, input models.LoginInput) (*models.SessionUser, error) {
	var user models.SessionUser
	if err := c.Do(ctx, http.MethodPost, "/auth/login", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register 注册并登录
func (c *Client) Register(ctx context.Context, input models.RegisterInput) (*models.SessionUser, error) {
	var user models.SessionUser
	if err := c.Do(ctx, http.MethodPost, "/auth/register", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout 退出登录，本地 cookie 无论结果都会清除
func (c *Client) Logout(ctx context.Context) error {
	err := c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.ClearCookies()
	return err
}

// Me 当前登录用户，未登录返回 401
func (c *Client) Me(ctx context.Context) (*models.SessionUser, error) {
	var user models.SessionUser
	if err := c.Do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 更新个人资料
func (c *Client) UpdateProfile(ctx context.Context, input models.ProfileInput) (*models.SessionUser, error) {
	var user models.SessionUser
	if err := c.Do(ctx, http.MethodPatch, "/users/me", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Favorites 服务端收藏列表
func (c *Client) Favorites(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.Do(ctx, http.MethodGet, "/me/favorites", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AddFavorite 添加服务端收藏
func (c *Client) AddFavorite(ctx context.Context, productID uint) error {
	body := map[string]uint{"product_id": productID}
	return c.Do(ctx, http.MethodPost, "/me/favorites", body, nil)
}

// RemoveFavorite 移除服务端收藏
func (c *Client) RemoveFavorite(ctx context.Context, productID uint) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/me/favorites/%d", productID), nil, nil)
}

// CreateOrder 创建订单
func (c *Client) CreateOrder(ctx context.Context, input models.OrderCreate) (*models.Order, error) {
	var order models.Order
	if err := c.Do(ctx, http.MethodPost, "/orders", input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MyOrders 当前用户订单
func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.Do(ctx, http.MethodGet, "/me/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// MyOrder 当前用户订单详情
func (c *Client) MyOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/me/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ActivePromotions 当前生效的促销
func (c *Client) ActivePromotions(ctx context.Context) ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := c.Do(ctx, http.MethodGet, "/promotions/active", nil, &promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

// ValidatePromoCode 在生效促销中查找促销码，未找到返回 nil
func (c *Client) ValidatePromoCode(ctx context.Context, code string, now time.Time) (*models.Promotion, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	promotions, err := c.ActivePromotions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range promotions {
		if promotions[i].Code == code && promotions[i].ActiveAt(now) {
			promo := promotions[i]
			return &promo, nil
		}
	}
	return nil, nil
}
