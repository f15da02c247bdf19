package storefront

import (
	"strings"

	"github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/view"

	"github.com/gin-gonic/gin"
)

// FavoriteRequest 收藏请求
type FavoriteRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// GetFavorites 收藏页；登录用户先以服务端收藏覆盖本地
func (h *Handler) GetFavorites(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	sess.Store.Favorites.Reconcile(ctxOf(c), sess.API)
	response.Success(c, view.NewFavoritesPage(sess.Store.Favorites.All(), locale(c)))
}

// ToggleFavorite 切换收藏；登录用户先同步到服务端，失败时本地不变
func (h *Handler) ToggleFavorite(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := sess.API.Product(ctxOf(c), strings.TrimSpace(req.Slug))
	if err != nil {
		respondBackendError(c, err, "error.product_not_found")
		return
	}

	adding := !sess.Store.Favorites.Has(product.ID)
	if sess.User() != nil {
		if adding {
			err = sess.API.AddFavorite(ctxOf(c), product.ID)
		} else {
			err = sess.API.RemoveFavorite(ctxOf(c), product.ID)
		}
		if err != nil {
			respondBackendError(c, err, "error.favorites_sync_failed")
			return
		}
	}

	key := "toast.favorite_removed"
	if adding {
		sess.Store.Favorites.Add(ctxOf(c), *product)
		key = "toast.favorite_added"
	} else {
		sess.Store.Favorites.Remove(ctxOf(c), product.ID)
	}
	response.SuccessWithMsg(c, toast(c, key), gin.H{
		"product_id": product.ID,
		"favorite":   adding,
		"count":      sess.Store.Favorites.Count(),
	})
}

// DeleteFavorite 取消收藏（收藏页按 ID 删除）
func (h *Handler) DeleteFavorite(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	id, ok := shared.ParseUintParam(c, "product_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	if sess.User() != nil {
		if err := sess.API.RemoveFavorite(ctxOf(c), id); err != nil {
			respondBackendError(c, err, "error.favorites_sync_failed")
			return
		}
	}
	sess.Store.Favorites.Remove(ctxOf(c), id)
	response.SuccessWithMsg(c, toast(c, "toast.favorite_removed"), view.NewFavoritesPage(sess.Store.Favorites.All(), locale(c)))
}
