package storefront

import (
	"strings"

	"github.com/spongik/storefront/internal/apiclient"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/session"

	"github.com/gin-gonic/gin"
)

// expireOnUnauthorized 后端返回 401 时本地登录态随之失效
func (h *Handler) expireOnUnauthorized(c *gin.Context, sess *session.Session, err error) {
	if sess == nil || sess.User() == nil || !apiclient.IsUnauthorized(err) {
		return
	}
	requestLog(c).Infow("session_backend_expired", "session_id", sess.ID, "user_id", sess.User().ID)
	h.Sessions.Logout(ctxOf(c), sess)
}

func (h *Handler) authPayload(c *gin.Context, sess *session.Session) gin.H {
	return gin.H{
		"user":            sess.User(),
		"display_name":    sess.User().DisplayName(),
		"is_admin":        sess.User().IsAdmin(),
		"favorites_count": sess.Store.Favorites.Count(),
		"cart_count":      sess.Store.Cart.Count(),
	}
}

// Login 登录：写入会话用户，同步服务端收藏并保存快照
func (h *Handler) Login(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	var req models.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	user, err := sess.API.Login(ctxOf(c), req)
	if err != nil {
		if apiclient.IsUnauthorized(err) || apiclient.IsStatus(err, 400) {
			respondError(c, response.CodeUnauthorized, "error.login_failed", nil)
			return
		}
		respondBackendError(c, err, "error.login_failed")
		return
	}
	sess.Store.User.Set(user)
	sess.Store.Favorites.Reconcile(ctxOf(c), sess.API)
	h.Sessions.Persist(ctxOf(c), sess)
	requestLog(c).Infow("storefront_login", "session_id", sess.ID, "user_id", user.ID, "role", user.Role)
	response.SuccessWithMsg(c, toast(c, "toast.logged_in"), h.authPayload(c, sess))
}

// Register 注册，成功后直接视为已登录
func (h *Handler) Register(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	var req models.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeValidation, "error.register_invalid", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Email == "" && req.Phone == "" {
		respondError(c, response.CodeValidation, "error.register_invalid", nil)
		return
	}
	user, err := sess.API.Register(ctxOf(c), req)
	if err != nil {
		respondBackendError(c, err, "error.register_failed")
		return
	}
	sess.Store.User.Set(user)
	h.Sessions.Persist(ctxOf(c), sess)
	requestLog(c).Infow("storefront_register", "session_id", sess.ID, "user_id", user.ID)
	response.SuccessWithMsg(c, toast(c, "toast.registered"), h.authPayload(c, sess))
}

// Logout 退出：后端退出失败不影响本地清理
func (h *Handler) Logout(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	if sess.User() != nil {
		if err := sess.API.Logout(ctxOf(c)); err != nil {
			requestLog(c).Warnw("storefront_backend_logout_failed", "session_id", sess.ID, "error", err)
		}
	}
	h.Sessions.Logout(ctxOf(c), sess)
	response.SuccessWithMsg(c, toast(c, "toast.logged_out"), gin.H{"user": nil})
}

// Me 当前用户；游客返回 user=null
func (h *Handler) Me(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok {
		return
	}
	if sess.User() == nil {
		response.Success(c, gin.H{
			"user":            nil,
			"favorites_count": sess.Store.Favorites.Count(),
			"cart_count":      sess.Store.Cart.Count(),
		})
		return
	}
	user, err := sess.API.Me(ctxOf(c))
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			h.expireOnUnauthorized(c, sess, err)
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return
		}
		// 后端不可达时沿用本地快照
		requestLog(c).Warnw("storefront_me_refresh_failed", "session_id", sess.ID, "error", err)
		response.Success(c, h.authPayload(c, sess))
		return
	}
	sess.Store.User.Set(user)
	// 会话校验通过后以服务端收藏为准
	sess.Store.Favorites.Reconcile(ctxOf(c), sess.API)
	response.Success(c, h.authPayload(c, sess))
}
