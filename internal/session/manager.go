// Package session 访客会话：每个访客一份状态、后端客户端与目录浏览状态
package session

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spongik/storefront/internal/apiclient"
	"github.com/spongik/storefront/internal/cache"
	"github.com/spongik/storefront/internal/catalog"
	"github.com/spongik/storefront/internal/checkout"
	"github.com/spongik/storefront/internal/logger"
	"github.com/spongik/storefront/internal/metrics"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/state"
	"github.com/spongik/storefront/internal/storage"

	"github.com/google/uuid"
)

const (
	defaultIdleTimeout = 2 * time.Hour
	defaultMaxGuests   = 10000
	// 只来过一次的会话（不保存 cookie 的爬虫、探活）按更短的时间淘汰
	oneShotIdleTimeout = 5 * time.Minute
)

// ErrBackendUnset 未配置后端地址
var ErrBackendUnset = errors.New("session: backend base url is empty")

// Session 单个访客会话
type Session struct {
	ID      string
	Store   *state.Store
	API     *apiclient.Client
	Browser *catalog.Browser

	mu           sync.Mutex
	confirmation *checkout.Confirmation
	lastSeen     time.Time
	hits         int
}

// SetConfirmation 保存最近一次下单结果（供成功页读取）
func (s *Session) SetConfirmation(conf *checkout.Confirmation) {
	s.mu.Lock()
	s.confirmation = conf
	s.mu.Unlock()
}

// Confirmation 最近一次下单结果
func (s *Session) Confirmation() *checkout.Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmation
}

// User 当前登录用户，游客为 nil
func (s *Session) User() *models.SessionUser {
	return s.Store.User.Current()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.hits++
	s.mu.Unlock()
}

func (s *Session) activity() (time.Time, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen, s.hits
}

// Options 会话管理选项
type Options struct {
	BackendURL    string
	ClientOptions []apiclient.Option
	Storage       storage.Provider
	IdleTimeout   time.Duration
	MaxGuests     int
	PageSize      int
}

// Manager 会话管理：内存保存活跃会话，登录用户与后端 cookie 同步到 Redis 以便恢复
type Manager struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewManager 创建会话管理器
func NewManager(opts Options) (*Manager, error) {
	if strings.TrimSpace(opts.BackendURL) == "" {
		return nil, ErrBackendUnset
	}
	if _, err := apiclient.New(opts.BackendURL); err != nil {
		return nil, err
	}
	if opts.Storage == nil {
		opts.Storage = storage.NewMemory(0)
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}
	if opts.MaxGuests <= 0 {
		opts.MaxGuests = defaultMaxGuests
	}
	if opts.PageSize <= 0 {
		opts.PageSize = catalog.DefaultPageSize
	}
	return &Manager{
		opts:     opts,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}, nil
}

// Resolve 按 cookie 中的 ID 取会话；ID 无效时新建，created 表示需要下发新 cookie
func (m *Manager) Resolve(ctx context.Context, id string) (sess *Session, created bool, err error) {
	id = strings.TrimSpace(id)
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		sess, err = m.open(ctx, uuid.NewString())
		return sess, err == nil, err
	}

	m.mu.Lock()
	sess, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		sess.touch(m.now())
		return sess, false, nil
	}
	sess, err = m.open(ctx, id)
	return sess, false, err
}

// open 创建会话：购物车与收藏从存储加载，登录态从快照恢复
func (m *Manager) open(ctx context.Context, id string) (*Session, error) {
	client, err := apiclient.New(m.opts.BackendURL, m.opts.ClientOptions...)
	if err != nil {
		return nil, err
	}
	store := state.New(m.opts.Storage.For(id), state.WithLogger(logger.Named("state").With("session_id", id)))
	store.Load(ctx)

	sess := &Session{
		ID:       id,
		Store:    store,
		API:      client,
		Browser:  catalog.NewBrowser(client, m.opts.PageSize),
		lastSeen: m.now(),
		hits:     1,
	}
	m.restore(ctx, sess)

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		existing.touch(m.now())
		return existing, nil
	}
	m.sessions[id] = sess
	trimmed := m.trimGuestsLocked(id)
	count := len(m.sessions)
	m.mu.Unlock()
	metrics.SetActiveSessions(count)
	if trimmed > 0 {
		logger.Infow("session_guest_trimmed", "removed", trimmed, "active", count)
	}
	return sess, nil
}

// trimGuestsLocked 游客会话超过上限时淘汰最久未访问的游客；登录用户不受影响
func (m *Manager) trimGuestsLocked(keep string) int {
	type guest struct {
		id       string
		lastSeen time.Time
	}
	guests := make([]guest, 0, len(m.sessions))
	for id, sess := range m.sessions {
		if id == keep || sess.User() != nil {
			continue
		}
		lastSeen, _ := sess.activity()
		guests = append(guests, guest{id: id, lastSeen: lastSeen})
	}
	// 新会话占一个名额
	excess := len(guests) + 1 - m.opts.MaxGuests
	if excess <= 0 {
		return 0
	}
	sort.Slice(guests, func(i, j int) bool { return guests[i].lastSeen.Before(guests[j].lastSeen) })
	for _, g := range guests[:excess] {
		delete(m.sessions, g.id)
	}
	return excess
}

func (m *Manager) restore(ctx context.Context, sess *Session) {
	snapshot, ok, err := cache.GetSessionState(ctx, sess.ID)
	if err != nil {
		logger.Warnw("session_restore_failed", "session_id", sess.ID, "error", err)
		return
	}
	if !ok || snapshot == nil {
		return
	}
	m.applySnapshot(ctx, sess, snapshot)
}

// applySnapshot 恢复后端 cookie 与登录用户；登录用户的收藏以服务端为准
func (m *Manager) applySnapshot(ctx context.Context, sess *Session, snapshot *cache.SessionState) {
	cookies := make([]*http.Cookie, 0, len(snapshot.Cookies))
	for _, c := range snapshot.Cookies {
		if c.Name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain, Expires: c.Expires})
	}
	sess.API.SetCookies(cookies)
	if snapshot.User != nil {
		sess.Store.User.Set(snapshot.User)
		sess.Store.Favorites.Reconcile(ctx, sess.API)
	}
	logger.Debugw("session_restored", "session_id", sess.ID, "authenticated", snapshot.User != nil)
}

// Persist 保存登录用户与后端 cookie 快照
func (m *Manager) Persist(ctx context.Context, sess *Session) {
	if sess == nil {
		return
	}
	snapshot := &cache.SessionState{
		SessionID: sess.ID,
		User:      sess.User(),
		UpdatedAt: m.now().Unix(),
	}
	for _, c := range sess.API.Cookies() {
		snapshot.Cookies = append(snapshot.Cookies, cache.SessionCookie{Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain, Expires: c.Expires})
	}
	if err := cache.SetSessionState(ctx, snapshot); err != nil {
		logger.Warnw("session_persist_failed", "session_id", sess.ID, "error", err)
	}
}

// Logout 清除登录态（购物车与收藏保留）
func (m *Manager) Logout(ctx context.Context, sess *Session) {
	if sess == nil {
		return
	}
	sess.Store.User.Clear()
	sess.API.ClearCookies()
	if err := cache.DelSessionState(ctx, sess.ID); err != nil {
		logger.Warnw("session_snapshot_delete_failed", "session_id", sess.ID, "error", err)
	}
}

// Get 仅查询内存中的会话
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Len 活跃会话数
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// IDs 活跃会话 ID（排序）
func (m *Manager) IDs() []string {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// EvictIdle 移除空闲超时的会话；持久化数据不受影响，下次访问时重新加载
func (m *Manager) EvictIdle(now time.Time) int {
	m.mu.Lock()
	removed := 0
	for id, sess := range m.sessions {
		lastSeen, hits := sess.activity()
		idle := now.Sub(lastSeen)
		if idle > m.opts.IdleTimeout || (hits <= 1 && idle > oneShotIdleTimeout) {
			delete(m.sessions, id)
			removed++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()
	metrics.SetActiveSessions(count)
	if removed > 0 {
		logger.Infow("session_idle_evicted", "removed", removed, "active", count)
	}
	return removed
}
