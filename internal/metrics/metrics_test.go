package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/products/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/products/:slug", "200"))
	for _, slug := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/"+slug, nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/products/:slug", "200"))
	if after-before != 3 {
		t.Fatalf("want 3 requests on one label got %v", after-before)
	}

	unmatchedBefore := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")); got-unmatchedBefore != 1 {
		t.Fatalf("unmatched route should be counted once, got %v", got-unmatchedBefore)
	}
}

func TestObserveHelpersAndHandler(t *testing.T) {
	before := testutil.ToFloat64(backendRequestsTotal.WithLabelValues(http.MethodGet, "0"))
	ObserveBackend(http.MethodGet, 0, 10*time.Millisecond)
	if got := testutil.ToFloat64(backendRequestsTotal.WithLabelValues(http.MethodGet, "0")); got-before != 1 {
		t.Fatalf("backend counter want +1 got %v", got-before)
	}

	ObserveCarrier("getWarehouses", OutcomeStale)
	SetActiveSessions(7)
	if got := testutil.ToFloat64(activeSessions); got != 7 {
		t.Fatalf("active sessions want 7 got %v", got)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	if !strings.Contains(body, "storefront_carrier_lookups_total") || !strings.Contains(body, "storefront_active_sessions 7") {
		t.Fatalf("exposition missing storefront metrics")
	}
}
