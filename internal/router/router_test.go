package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spongik/storefront/internal/config"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.Backend.BaseURL = "http://127.0.0.1:9/api"
	cfg.Storage.Driver = "memory"
	cfg.Session.CookieName = "spongik_sid"
	cfg.Session.TTLHours = 1
	cfg.Metrics.Enabled = true
	c, err := provider.NewContainerWithDB(cfg, db)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	return SetupRouter(cfg, c), c
}

func serve(t *testing.T, r *gin.Engine, method, path, cookie string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "spongik_sid", Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
		}
	}
	return w, resp
}

func sessionCookie(w *httptest.ResponseRecorder) string {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "spongik_sid" {
			return ck.Value
		}
	}
	return ""
}

func TestSessionCookieIssuedOnce(t *testing.T) {
	r, c := newTestRouter(t)

	w, resp := serve(t, r, http.MethodGet, "/api/v1/storefront/cart", "")
	if resp.StatusCode != 0 {
		t.Fatalf("cart want code 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	id := sessionCookie(w)
	if id == "" {
		t.Fatalf("new visitor should receive a session cookie")
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "HttpOnly") {
		t.Fatalf("session cookie should be HttpOnly: %s", w.Header().Get("Set-Cookie"))
	}

	w, _ = serve(t, r, http.MethodGet, "/api/v1/storefront/cart", id)
	if sessionCookie(w) != "" {
		t.Fatalf("known session should not be re-issued")
	}
	if c.Sessions.Len() != 1 {
		t.Fatalf("sessions want 1 got %d", c.Sessions.Len())
	}

	w, _ = serve(t, r, http.MethodGet, "/api/v1/storefront/cart", "not-a-uuid")
	if fresh := sessionCookie(w); fresh == "" || fresh == id {
		t.Fatalf("forged id should be replaced, got %q", fresh)
	}
}

func TestAdminRBAC(t *testing.T) {
	r, c := newTestRouter(t)
	const catalogPath = "/api/v1/admin/authz/permissions/catalog"

	_, resp := serve(t, r, http.MethodGet, catalogPath, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("guest want 401 got %d", resp.StatusCode)
	}

	tests := []struct {
		name   string
		role   string
		method string
		path   string
		want   int
	}{
		{name: "customer_denied", role: models.RoleCustomer, method: http.MethodGet, path: catalogPath, want: http.StatusForbidden},
		{name: "manager_reads", role: models.RoleManager, method: http.MethodGet, path: catalogPath, want: 0},
		{name: "manager_cannot_delete_role", role: models.RoleManager, method: http.MethodDelete, path: "/api/v1/admin/authz/roles/ops", want: http.StatusForbidden},
		{name: "admin_reads", role: models.RoleAdmin, method: http.MethodGet, path: catalogPath, want: 0},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := serve(t, r, http.MethodGet, "/api/v1/storefront/cart", "")
			id := sessionCookie(w)
			sess, ok := c.Sessions.Get(id)
			if !ok {
				t.Fatalf("session %s not found", id)
			}
			sess.Store.User.Set(&models.SessionUser{ID: uint(100 + i), Role: tt.role})

			_, resp := serve(t, r, tt.method, tt.path, id)
			if resp.StatusCode != tt.want {
				t.Fatalf("want %d got %d (%s)", tt.want, resp.StatusCode, resp.Msg)
			}
		})
	}
}

func TestPermissionCatalogListsAdminRoutes(t *testing.T) {
	r, _ := newTestRouter(t)
	items := buildAdminPermissionCatalog(r)
	if len(items) == 0 {
		t.Fatalf("catalog should not be empty")
	}
	found := false
	for _, item := range items {
		if strings.HasPrefix(item.Object, "/storefront") {
			t.Fatalf("storefront route leaked into catalog: %+v", item)
		}
		if item.Permission == "POST:/admin/products/bulk/promotion" {
			found = true
			if item.Module != "products" {
				t.Fatalf("module want products got %s", item.Module)
			}
		}
	}
	if !found {
		t.Fatalf("bulk promotion permission missing")
	}
}

func TestDeriveAdminPermissionModule(t *testing.T) {
	cases := map[string]string{
		"":                         "system",
		"/admin":                   "admin",
		"/admin/authz/roles":       "authz",
		"/admin/orders/:id/status": "orders",
	}
	for object, want := range cases {
		if got := deriveAdminPermissionModule(object); got != want {
			t.Fatalf("%q want %s got %s", object, want, got)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)
	w, _ := serve(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("health want ok got %d %s", w.Code, w.Body.String())
	}
	w, _ = serve(t, r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "storefront_http_requests_total") {
		t.Fatalf("metrics should expose request counter, got %d", w.Code)
	}
}
