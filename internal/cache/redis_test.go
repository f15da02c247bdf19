package cache

import (
	"context"
	"testing"
	"time"

	"github.com/spongik/storefront/internal/config"
	"github.com/spongik/storefront/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	ctx := context.Background()
	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	if Client() != nil {
		t.Fatalf("client should be nil when disabled")
	}
	if err := SetBytes(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set should be noop: %v", err)
	}
	if _, hit, err := GetBytes(ctx, "k"); hit || err != nil {
		t.Fatalf("get should miss without error, hit=%v err=%v", hit, err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping should be noop: %v", err)
	}
	if err := SetSessionState(ctx, &SessionState{SessionID: "sid", User: &models.SessionUser{ID: 1}}); err != nil {
		t.Fatalf("set session state should be noop: %v", err)
	}
	if state, hit, err := GetSessionState(ctx, "sid"); state != nil || hit || err != nil {
		t.Fatalf("session state should miss")
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	old := redisPrefix
	defer func() { redisPrefix = old }()
	redisPrefix = "spongik"
	if got := Key(" np:city:abc "); got != "spongik:np:city:abc" {
		t.Fatalf("key want spongik:np:city:abc got %s", got)
	}
	if got := Key(""); got != "spongik" {
		t.Fatalf("empty key want prefix got %s", got)
	}
}

func TestRedisEnabledWithoutServer(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1, Prefix: ""}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	defer Close()
	if !Enabled() {
		t.Fatalf("cache should be enabled")
	}
	if Key("x") != "spongik:x" {
		t.Fatalf("default prefix not applied: %s", Key("x"))
	}
}
