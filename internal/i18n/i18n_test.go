package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{name: "default", target: "/", want: LocaleUK},
		{name: "query wins", target: "/?lang=en", header: "uk-UA", want: LocaleEN},
		{name: "header region", target: "/", header: "en-US,en;q=0.9", want: LocaleEN},
		{name: "unknown header", target: "/", header: "de-DE", want: LocaleUK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				c.Request.Header.Set("Accept-Language", tc.header)
			}
			if got := ResolveLocale(c); got != tc.want {
				t.Fatalf("locale want %s got %s", tc.want, got)
			}
		})
	}
}

func TestTFallbacks(t *testing.T) {
	if got := T(LocaleEN, "validation.phone"); got != "Invalid phone format" {
		t.Fatalf("en message got %s", got)
	}
	if got := T("fr", "validation.phone"); got != "Невірний формат телефону" {
		t.Fatalf("unknown locale should fall back to uk, got %s", got)
	}
	if got := T(LocaleUK, "missing.key"); got != "missing.key" {
		t.Fatalf("missing key should echo key, got %s", got)
	}
	if got := Sprintf(LocaleEN, "error.rate_limited", 7); got != "Too many attempts, retry in 7 s" {
		t.Fatalf("sprintf got %s", got)
	}
}

func TestLocalesShareKeys(t *testing.T) {
	for key := range messages[LocaleUK] {
		if _, ok := messages[LocaleEN][key]; !ok {
			t.Fatalf("en locale missing key %s", key)
		}
	}
}
