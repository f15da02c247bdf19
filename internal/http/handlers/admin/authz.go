package admin

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spongik/storefront/internal/authz"
	"github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/logger"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzSetUserRolesPayload struct {
	Roles []string `json:"roles"`
}

func (h *Handler) authzReady(c *gin.Context) bool {
	if h.AuthzService == nil {
		respondError(c, response.CodeUnavailable, "error.authz_unavailable", nil)
		return false
	}
	return true
}

// GetAuthzMe 当前用户权限快照
func (h *Handler) GetAuthzMe(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok || !h.authzReady(c) {
		return
	}
	user := sess.User()
	roles, err := h.AuthzService.GetUserRoles(user.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}
	policies, err := h.AuthzService.GetUserPolicies(user.ID, user.Role)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}
	response.Success(c, gin.H{
		"user_id":     user.ID,
		"role":        user.Role,
		"is_admin":    user.IsAdmin(),
		"extra_roles": roles,
		"policies":    policies,
	})
}

// ListAuthzRoles 角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	if !h.authzReady(c) {
		return
	}
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole 创建角色
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	if !h.authzReady(c) {
		return
	}
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	h.recordAuthzAudit(c, authz.AuditRecord{
		Action: "role_create",
		Role:   role,
		Detail: map[string]interface{}{"role": role},
	})
	logger.Infow("admin_authz_role_created",
		"operator_user_id", currentUserID(c),
		"role", role,
	)
	response.Success(c, gin.H{"role": role})
}

// DeleteAuthzRole 删除角色（内置角色由后端角色映射，删除后重启会重新写入）
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	if !h.authzReady(c) {
		return
	}
	role := decodeRoleParam(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.AuthzService.DeleteRole(role); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	h.recordAuthzAudit(c, authz.AuditRecord{
		Action: "role_delete",
		Role:   role,
		Detail: map[string]interface{}{"role": role},
	})
	logger.Infow("admin_authz_role_deleted",
		"operator_user_id", currentUserID(c),
		"role", role,
	)
	response.Success(c, nil)
}

// GetAuthzRolePolicies 角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	if !h.authzReady(c) {
		return
	}
	role := decodeRoleParam(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 授予角色策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	h.changeAuthzPolicy(c, "policy_grant")
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	h.changeAuthzPolicy(c, "policy_revoke")
}

func (h *Handler) changeAuthzPolicy(c *gin.Context, action string) {
	if !h.authzReady(c) {
		return
	}
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var err error
	if action == "policy_grant" {
		err = h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action)
	} else {
		err = h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action)
	}
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	h.recordAuthzAudit(c, authz.AuditRecord{
		Action: action,
		Role:   req.Role,
		Object: req.Object,
		Method: req.Action,
		Detail: map[string]interface{}{
			"role":   req.Role,
			"object": req.Object,
			"method": strings.ToUpper(strings.TrimSpace(req.Action)),
		},
	})
	logger.Infow("admin_authz_policy_changed",
		"operator_user_id", currentUserID(c),
		"change", action,
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, nil)
}

// GetAuthzUserRoles 用户额外角色
func (h *Handler) GetAuthzUserRoles(c *gin.Context) {
	if !h.authzReady(c) {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}
	response.Success(c, roles)
}

// SetAuthzUserRoles 设置用户额外角色（覆盖）
func (h *Handler) SetAuthzUserRoles(c *gin.Context) {
	if !h.authzReady(c) {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req authzSetUserRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.SetUserRoles(userID, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	h.recordAuthzAudit(c, authz.AuditRecord{
		TargetUserID: &userID,
		Action:       "user_roles_update",
		Detail: map[string]interface{}{
			"target_user_id": userID,
			"roles":          req.Roles,
		},
	})
	logger.Infow("admin_authz_user_roles_updated",
		"operator_user_id", currentUserID(c),
		"target_user_id", userID,
		"roles", req.Roles,
	)
	response.Success(c, nil)
}

// ListAuthzAuditLogs 权限审计日志
func (h *Handler) ListAuthzAuditLogs(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	filter := authz.AuditFilter{
		Page:     page,
		PageSize: pageSize,
		Action:   strings.TrimSpace(c.Query("action")),
		Role:     strings.TrimSpace(c.Query("role")),
	}
	for key, dest := range map[string]*uint{
		"operator_user_id": &filter.OperatorUserID,
		"target_user_id":   &filter.TargetUserID,
	} {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		*dest = uint(parsed)
	}
	var err error
	if filter.CreatedFrom, err = parseTimeNullable(c.Query("created_from")); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if filter.CreatedTo, err = parseTimeNullable(c.Query("created_to")); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items, total, err := h.AuthzAudit.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

func (h *Handler) recordAuthzAudit(c *gin.Context, input authz.AuditRecord) {
	if h == nil || h.AuthzAudit == nil {
		return
	}
	input.OperatorUserID = currentUserID(c)
	input.OperatorEmail = currentUserEmail(c)
	input.RequestID = currentRequestID(c)
	if err := h.AuthzAudit.Record(input); err != nil {
		logger.Warnw("admin_authz_audit_record_failed",
			"error", err,
			"action", input.Action,
			"operator_user_id", input.OperatorUserID,
		)
	}
}

func decodeRoleParam(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(decoded)
}
