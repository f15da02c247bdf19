package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spongik/storefront/internal/authz"
	"github.com/spongik/storefront/internal/config"
	"github.com/spongik/storefront/internal/http/handlers/shared"
	"github.com/spongik/storefront/internal/http/response"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/provider"
	"github.com/spongik/storefront/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

type fakeAdminBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	expired  bool
}

func (b *fakeAdminBackend) last() recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return recordedRequest{}
	}
	return b.requests[len(b.requests)-1]
}

func (b *fakeAdminBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
	expired := b.expired
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if expired {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Not authenticated"}`))
		return
	}
	switch {
	case r.URL.Path == "/api/admin/stats":
		_, _ = w.Write([]byte(`{"orders_today":3,"orders_month":40,"revenue_today":1500,"revenue_month":42000}`))
	case r.URL.Path == "/api/admin/orders":
		var items []string
		for i := 1; i <= 7; i++ {
			items = append(items, fmt.Sprintf(`{"id":%d,"order_number":"SP-%d","status":"pending","created_at":"2026-01-0%dT10:00:00Z"}`, i, i, i))
		}
		_, _ = w.Write([]byte(`{"items":[` + strings.Join(items, ",") + `],"total":7,"page":1,"page_size":20}`))
	case r.URL.Path == "/api/promotions" && r.Method == http.MethodPost:
		_, _ = w.Write([]byte(`{"id":77,"name":"Весна","type":"percent","scope":"product","value":15,"target_ids":"[3,5]","is_active":true}`))
	case strings.HasPrefix(r.URL.Path, "/api/users/"):
		_, _ = w.Write([]byte(`{"id":9,"email":"buyer@example.ua","role":"manager","is_active":true}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found"}`))
	}
}

type adminEnv struct {
	router    *gin.Engine
	backend   *fakeAdminBackend
	sess      *session.Session
	container *provider.Container
}

func newAdminEnv(t *testing.T) *adminEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backend := &fakeAdminBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.Backend.BaseURL = srv.URL + "/api"
	cfg.Storage.Driver = "memory"
	container, err := provider.NewContainerWithDB(cfg, db)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	sess, _, err := container.Sessions.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("resolve session failed: %v", err)
	}
	sess.Store.User.Set(&models.SessionUser{ID: 1, Email: "admin@spongik.ua", Role: models.RoleAdmin})

	h := New(container)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "rid-test")
		shared.SetSession(c, sess)
		c.Next()
	})
	r.GET("/dashboard", h.GetDashboard)
	r.POST("/products/bulk/promotion", h.BulkCreatePromotion)
	r.PATCH("/users/:id", h.UpdateUser)
	r.POST("/authz/roles", h.CreateAuthzRole)
	r.GET("/authz/audit-logs", h.ListAuthzAuditLogs)
	return &adminEnv{router: r, backend: backend, sess: sess, container: container}
}

func (e *adminEnv) do(t *testing.T, method, path string, body interface{}) envelope {
	t.Helper()
	raw, _ := json.Marshal(body)
	if body == nil {
		raw = nil
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestDashboardShowsFiveLatestOrders(t *testing.T) {
	env := newAdminEnv(t)
	resp := env.do(t, http.MethodGet, "/dashboard", nil)
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("dashboard want code 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var page struct {
		RevenueTodayText string `json:"revenue_today_text"`
		LatestOrders     []struct {
			ID uint `json:"id"`
		} `json:"latest_orders"`
	}
	if err := json.Unmarshal(resp.Data, &page); err != nil {
		t.Fatalf("decode dashboard failed: %v", err)
	}
	if len(page.LatestOrders) != 5 || page.LatestOrders[0].ID != 7 {
		t.Fatalf("want 5 newest orders starting with 7 got %+v", page.LatestOrders)
	}
	if page.RevenueTodayText != "1 500 ₴" {
		t.Fatalf("revenue text want %q got %q", "1 500 ₴", page.RevenueTodayText)
	}
}

func TestBulkPromotionTargetsSelectedProducts(t *testing.T) {
	env := newAdminEnv(t)
	resp := env.do(t, http.MethodPost, "/products/bulk/promotion", gin.H{
		"product_ids": []uint{3, 5, 3, 0},
		"name":        " Весна ",
		"type":        "percent",
		"value":       15,
	})
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("bulk promotion want code 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	sent := env.backend.last()
	if sent.Path != "/api/promotions" || sent.Body["scope"] != "product" || sent.Body["target_ids"] != "[3,5]" {
		t.Fatalf("unexpected backend request %+v", sent)
	}
	if sent.Body["name"] != "Весна" || sent.Body["is_active"] != true {
		t.Fatalf("name should be trimmed and promotion active, got %+v", sent.Body)
	}

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "percent_over_100", body: gin.H{"product_ids": []uint{1}, "name": "x", "type": "percent", "value": 120}},
		{name: "zero_value", body: gin.H{"product_ids": []uint{1}, "name": "x", "type": "fixed", "value": 0}},
		{name: "ends_before_start", body: gin.H{"product_ids": []uint{1}, "name": "x", "type": "fixed", "value": 10,
			"starts_at": "2026-05-02T00:00:00Z", "ends_at": "2026-05-01T00:00:00Z"}},
		{name: "no_products", body: gin.H{"product_ids": []uint{}, "name": "x", "type": "fixed", "value": 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/products/bulk/promotion", tt.body)
			if resp.StatusCode != response.CodeBadRequest {
				t.Fatalf("want 400 got %d", resp.StatusCode)
			}
		})
	}
}

func TestUpdateUserGuardsSelf(t *testing.T) {
	env := newAdminEnv(t)
	resp := env.do(t, http.MethodPatch, "/users/1", gin.H{"is_active": false})
	if resp.StatusCode != response.CodeForbidden {
		t.Fatalf("self deactivation want 403 got %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodPatch, "/users/9", gin.H{"role": "manager"})
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("update other user want code 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	resp = env.do(t, http.MethodPatch, "/users/9", gin.H{"role": "root"})
	if resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("unknown role want 400 got %d", resp.StatusCode)
	}
}

func TestBackendUnauthorizedLogsOut(t *testing.T) {
	env := newAdminEnv(t)
	env.backend.mu.Lock()
	env.backend.expired = true
	env.backend.mu.Unlock()
	resp := env.do(t, http.MethodGet, "/dashboard", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expired backend session want 401 got %d", resp.StatusCode)
	}
	if env.sess.User() != nil {
		t.Fatalf("local session should be logged out")
	}
}

func TestCreateRoleWritesAudit(t *testing.T) {
	env := newAdminEnv(t)
	resp := env.do(t, http.MethodPost, "/authz/roles", gin.H{"role": "ops"})
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("create role want code 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	logs, total, err := env.container.AuthzAudit.List(authz.AuditFilter{Action: "role_create"})
	if err != nil || total != 1 {
		t.Fatalf("want one audit log got total=%d err=%v", total, err)
	}
	if logs[0].OperatorUserID != 1 || logs[0].RequestID != "rid-test" || logs[0].Role != "role:ops" {
		t.Fatalf("unexpected audit log %+v", logs[0])
	}

	resp = env.do(t, http.MethodGet, "/authz/audit-logs?operator_user_id=abc", nil)
	if resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("invalid filter want 400 got %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodGet, "/authz/audit-logs?operator_user_id=1", nil)
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("list audit want code 0 got %d", resp.StatusCode)
	}
}
