package storefront

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spongik/storefront/internal/catalog"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/session"
	"github.com/spongik/storefront/internal/view"

	"github.com/gin-gonic/gin"
)

const relatedFetchSize = 12

// ToggleCategoryRequest 切换分类
type ToggleCategoryRequest struct {
	Slug string `json:"slug"`
}

// RemoveChipRequest 移除筛选标签
type RemoveChipRequest struct {
	Kind  string `json:"kind" binding:"required,oneof=category q price in_stock on_sale"`
	Value string `json:"value"`
}

// GetConfig 前台配置
func (h *Handler) GetConfig(c *gin.Context) {
	response.Success(c, gin.H{
		"currency":                h.Config.Checkout.Currency,
		"free_delivery_threshold": h.FreeDeliveryThreshold(),
		"page_size":               catalog.DefaultFilter(h.pageSize()).PageSize,
		"carrier_enabled":         h.NovaPoshta.Enabled(),
		"locale":                  locale(c),
	})
}

// loadTree 分类树；加载失败时返回空树，只影响侧栏与标签
func (h *Handler) loadTree(c *gin.Context, sess *session.Session) *catalog.Tree {
	categories, err := sess.API.Categories(ctxOf(c))
	if err != nil {
		requestLog(c).Warnw("catalog_categories_load_failed", "error", err)
		return catalog.BuildTree(nil)
	}
	return catalog.BuildTree(categories)
}

func (h *Handler) respondCatalog(c *gin.Context, sess *session.Session, tree *catalog.Tree, v catalog.View) {
	page := view.NewCatalogPage(v, tree, c.Query("category_q"), sess.Store.Favorites.IDs(), locale(c))
	response.Success(c, page)
}

func (h *Handler) applyFilter(c *gin.Context, sess *session.Session, tree *catalog.Tree, filter catalog.Filter) {
	v, err := sess.Browser.Apply(ctxOf(c), filter)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, "error.products_load_failed")
		return
	}
	h.respondCatalog(c, sess, tree, v)
}

// GetCatalog 目录页：按查询参数应用筛选并加载第一页
func (h *Handler) GetCatalog(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	tree := h.loadTree(c, sess)
	h.applyFilter(c, sess, tree, catalog.ParseFilter(c.Request.URL.Query(), h.pageSize()))
}

// LoadMore 加载下一页
func (h *Handler) LoadMore(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	v, err := sess.Browser.LoadMore(ctxOf(c))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, "error.products_load_failed")
		return
	}
	h.respondCatalog(c, sess, h.loadTree(c, sess), v)
}

// ToggleCategory 切换分类选择（父子联动）后重新加载
func (h *Handler) ToggleCategory(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	var req ToggleCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	tree := h.loadTree(c, sess)
	filter := sess.Browser.Filter()
	filter.Categories = catalog.Toggle(tree, filter.Categories, strings.TrimSpace(req.Slug))
	h.applyFilter(c, sess, tree, filter)
}

// RemoveChip 移除单个筛选标签
func (h *Handler) RemoveChip(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	var req RemoveChipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	tree := h.loadTree(c, sess)
	h.applyFilter(c, sess, tree, sess.Browser.Filter().RemoveChip(req.Kind, req.Value))
}

// ResetFilter 清空筛选
func (h *Handler) ResetFilter(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	tree := h.loadTree(c, sess)
	h.applyFilter(c, sess, tree, sess.Browser.Filter().Reset())
}

// GetCategories 分类树（支持 q 关键字筛选）
func (h *Handler) GetCategories(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	categories, err := sess.API.Categories(ctxOf(c))
	if err != nil {
		respondBackendError(c, err, "error.categories_load_failed")
		return
	}
	tree := catalog.BuildTree(categories)
	response.Success(c, view.CategoryNodes(tree, c.Query("q"), sess.Browser.Filter().Categories))
}

// GetProduct 商品详情页，附带相关商品
func (h *Handler) GetProduct(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	product, err := sess.API.Product(ctxOf(c), c.Param("slug"))
	if err != nil {
		respondBackendError(c, err, "error.product_not_found")
		return
	}
	// 购物车中的旧快照顺便刷新
	sess.Store.Cart.Refresh(ctxOf(c), *product)

	related := h.relatedProducts(c, sess, product.ID, product.CategoryID)
	inCart := 0
	if line, found := sess.Store.Cart.Find(product.ID); found {
		inCart = line.Qty
	}
	page := view.NewProductPage(*product, related, sess.Store.Favorites.IDs(), inCart, locale(c))
	response.Success(c, page)
}

func (h *Handler) relatedProducts(c *gin.Context, sess *session.Session, productID uint, categoryID *uint) []models.Product {
	current := models.Product{ID: productID}
	var sameCategory []models.Product
	if categoryID != nil {
		if slug := h.categorySlug(c, sess, *categoryID); slug != "" {
			query := url.Values{}
			query.Set("category", slug)
			query.Set("page_size", strconv.Itoa(relatedFetchSize))
			if page, err := sess.API.Products(ctxOf(c), query); err == nil {
				sameCategory = page.Items
			} else {
				requestLog(c).Warnw("related_category_load_failed", "category", slug, "error", err)
			}
		}
	}
	query := url.Values{}
	query.Set("sort", catalog.SortPopular)
	query.Set("page_size", strconv.Itoa(relatedFetchSize))
	var pool []models.Product
	if page, err := sess.API.Products(ctxOf(c), query); err == nil {
		pool = page.Items
	} else {
		requestLog(c).Warnw("related_pool_load_failed", "error", err)
	}
	return view.RelatedProducts(current, sameCategory, pool, 0)
}

func (h *Handler) categorySlug(c *gin.Context, sess *session.Session, id uint) string {
	for _, n := range h.loadTree(c, sess).Flatten() {
		if n.Category.ID == id {
			return n.Category.Slug
		}
	}
	return ""
}
