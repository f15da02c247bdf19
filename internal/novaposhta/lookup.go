package novaposhta

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spongik/storefront/internal/cache"
	"github.com/spongik/storefront/internal/logger"
	"github.com/spongik/storefront/internal/metrics"
)

const (
	citySearchLimit = 20
	warehouseLimit  = 1000
	// Redis 中保留过期数据用于失败回退
	staleRetention = 24 * time.Hour
)

// City 城市/居民点
type City struct {
	Ref    string `json:"ref"`
	Name   string `json:"name"`
	Area   string `json:"area"`
	Region string `json:"region"`
}

// Warehouse 网点或自提柜
type Warehouse struct {
	Ref          string `json:"ref"`
	Number       string `json:"number"`
	Name         string `json:"name"`
	ShortAddress string `json:"short_address"`
	City         string `json:"city"`
	Type         string `json:"type"`
}

// IsPostomat 是否自提柜
func (w Warehouse) IsPostomat() bool {
	return w.Type == TypePostomat
}

type cacheEntry struct {
	Data      []Warehouse `json:"data"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// SearchCities 按名称搜索城市，少于 2 个字符时直接返回空
func (c *Client) SearchCities(ctx context.Context, query string) ([]City, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return []City{}, nil
	}
	if !c.Enabled() {
		metrics.ObserveCarrier("searchSettlements", metrics.OutcomeDisabled)
		return []City{}, nil
	}
	var result []struct {
		Addresses []struct {
			DeliveryCity string `json:"DeliveryCity"`
			Present      string `json:"Present"`
			Area         string `json:"Area"`
			Region       string `json:"Region"`
		} `json:"Addresses"`
	}
	props := map[string]interface{}{"CityName": query, "Limit": citySearchLimit}
	if err := c.call(ctx, "searchSettlements", props, &result); err != nil {
		c.observeFailure("searchSettlements", err)
		return nil, err
	}
	metrics.ObserveCarrier("searchSettlements", metrics.OutcomeFetched)
	cities := []City{}
	if len(result) == 0 {
		return cities, nil
	}
	for _, addr := range result[0].Addresses {
		cities = append(cities, City{
			Ref:    addr.DeliveryCity,
			Name:   addr.Present,
			Area:   addr.Area,
			Region: addr.Region,
		})
	}
	return cities, nil
}

// Warehouses 查询城市网点，warehouseType 为空时返回全部类型
func (c *Client) Warehouses(ctx context.Context, cityRef, cityName, warehouseType string) ([]Warehouse, error) {
	cityRef, cityName = strings.TrimSpace(cityRef), strings.TrimSpace(cityName)
	if cityRef == "" && cityName == "" {
		return []Warehouse{}, nil
	}
	if !c.Enabled() {
		metrics.ObserveCarrier("getWarehouses", metrics.OutcomeDisabled)
		return []Warehouse{}, nil
	}
	props := map[string]interface{}{"Limit": warehouseLimit}
	if cityRef != "" {
		props["CityRef"] = cityRef
	} else {
		props["CityName"] = cityName
	}
	if warehouseType != "" {
		props["TypeOfWarehouse"] = warehouseType
	}
	var raw []struct {
		Ref             string `json:"Ref"`
		Number          string `json:"Number"`
		Description     string `json:"Description"`
		ShortAddress    string `json:"ShortAddress"`
		CityDescription string `json:"CityDescription"`
		TypeOfWarehouse string `json:"TypeOfWarehouse"`
	}
	if err := c.call(ctx, "getWarehouses", props, &raw); err != nil {
		c.observeFailure("getWarehouses", err)
		return nil, err
	}
	metrics.ObserveCarrier("getWarehouses", metrics.OutcomeFetched)
	out := make([]Warehouse, 0, len(raw))
	for _, wh := range raw {
		out = append(out, Warehouse{
			Ref:          wh.Ref,
			Number:       wh.Number,
			Name:         wh.Description,
			ShortAddress: wh.ShortAddress,
			City:         wh.CityDescription,
			Type:         wh.TypeOfWarehouse,
		})
	}
	return out, nil
}

// Postomats 只查询自提柜
func (c *Client) Postomats(ctx context.Context, cityRef, cityName string) ([]Warehouse, error) {
	return c.Warehouses(ctx, cityRef, cityName, TypePostomat)
}

// AllWarehouses 城市全部网点与自提柜（合并、去重、排序），按城市缓存
//
// 新鲜缓存直接返回；同一城市的并发查询共享一次调用；
// 限流错误直接返回，其余失败在有缓存时回退到旧数据。
func (c *Client) AllWarehouses(ctx context.Context, cityRef, cityName string) ([]Warehouse, error) {
	key := strings.TrimSpace(cityRef)
	if key == "" {
		key = strings.TrimSpace(cityName)
	}
	if key == "" {
		return []Warehouse{}, nil
	}
	if !c.Enabled() {
		metrics.ObserveCarrier("allWarehouses", metrics.OutcomeDisabled)
		return []Warehouse{}, nil
	}
	if entry, ok := c.lookupCache(ctx, key); ok && c.fresh(entry) {
		metrics.ObserveCarrier("allWarehouses", metrics.OutcomeHit)
		return cloneWarehouses(entry.Data), nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// singleflight 的调用方可能各自取消，拉取使用独立的 context
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*c.http.Timeout)
		defer cancel()
		return c.fetchAll(fetchCtx, cityRef, cityName)
	})
	if err == nil {
		data := v.([]Warehouse)
		c.storeCache(ctx, key, data)
		metrics.ObserveCarrier("allWarehouses", metrics.OutcomeFetched)
		return cloneWarehouses(data), nil
	}
	if errors.Is(err, ErrTooManyRequests) {
		metrics.ObserveCarrier("allWarehouses", metrics.OutcomeLimited)
		return nil, err
	}
	if entry, ok := c.lookupCache(ctx, key); ok {
		logger.Warnw("novaposhta_stale_cache_used", "city", key, "fetched_at", entry.FetchedAt, "error", err)
		metrics.ObserveCarrier("allWarehouses", metrics.OutcomeStale)
		return cloneWarehouses(entry.Data), nil
	}
	metrics.ObserveCarrier("allWarehouses", metrics.OutcomeFailed)
	return nil, err
}

// fetchAll 先查自提柜，再查网点；网点按类型为空时改为不带类型查询并剔除自提柜
func (c *Client) fetchAll(ctx context.Context, cityRef, cityName string) ([]Warehouse, error) {
	postomats, postomatErr := c.Warehouses(ctx, cityRef, cityName, TypePostomat)
	if errors.Is(postomatErr, ErrTooManyRequests) {
		return nil, postomatErr
	}
	if postomatErr != nil {
		logger.Warnw("novaposhta_postomats_failed", "city_ref", cityRef, "city_name", cityName, "error", postomatErr)
	}

	branches, branchErr := c.Warehouses(ctx, cityRef, cityName, TypeBranch)
	if branchErr == nil && len(branches) == 0 {
		var all []Warehouse
		all, branchErr = c.Warehouses(ctx, cityRef, cityName, "")
		for _, wh := range all {
			if !wh.IsPostomat() {
				branches = append(branches, wh)
			}
		}
	}
	if errors.Is(branchErr, ErrTooManyRequests) {
		return nil, branchErr
	}
	if branchErr != nil {
		logger.Warnw("novaposhta_branches_failed", "city_ref", cityRef, "city_name", cityName, "error", branchErr)
	}
	if postomatErr != nil && branchErr != nil {
		return nil, branchErr
	}
	return MergeWarehouses(branches, postomats), nil
}

// MergeWarehouses 合并多组结果：按 ref 去重（保留有类型的条目），网点在前，再按编号、名称排序
func MergeWarehouses(groups ...[]Warehouse) []Warehouse {
	index := make(map[string]int)
	var merged []Warehouse
	for _, group := range groups {
		for _, wh := range group {
			if wh.Ref == "" {
				continue
			}
			if i, ok := index[wh.Ref]; ok {
				if merged[i].Type == "" && wh.Type != "" {
					merged[i] = wh
				}
				continue
			}
			index[wh.Ref] = len(merged)
			merged = append(merged, wh)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.IsPostomat() != b.IsPostomat() {
			return !a.IsPostomat()
		}
		if a.Number != "" && b.Number != "" {
			na, nb := leadingInt(a.Number), leadingInt(b.Number)
			if na != nb {
				return na < nb
			}
		}
		return a.Name < b.Name
	})
	if merged == nil {
		merged = []Warehouse{}
	}
	return merged
}

// FindWarehouse 按编号查找网点：编号完全相同，或名称中包含该编号
func (c *Client) FindWarehouse(ctx context.Context, cityRef, cityName, number string) (*Warehouse, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, nil
	}
	all, err := c.AllWarehouses(ctx, cityRef, cityName)
	if err != nil {
		return nil, err
	}
	for i := range all {
		wh := all[i]
		if wh.Number == number ||
			strings.Contains(wh.Name, number) ||
			strings.Contains(wh.Name, "№"+number) ||
			strings.Contains(wh.Name, "#"+number) {
			return &wh, nil
		}
	}
	return nil, nil
}

func (c *Client) observeFailure(method string, err error) {
	if errors.Is(err, ErrTooManyRequests) {
		metrics.ObserveCarrier(method, metrics.OutcomeLimited)
		return
	}
	metrics.ObserveCarrier(method, metrics.OutcomeFailed)
	logger.Warnw("novaposhta_request_failed", "method", method, "error", err)
}

func (c *Client) fresh(entry cacheEntry) bool {
	return c.now().Sub(entry.FetchedAt) < c.cacheTTL
}

// lookupCache 先查进程内缓存，再查 Redis（共享给其他实例）
func (c *Client) lookupCache(ctx context.Context, key string) (cacheEntry, bool) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()
	if ok && c.fresh(entry) {
		return entry, true
	}

	var shared cacheEntry
	found, err := cache.GetJSON(ctx, warehousesCacheKey(key), &shared)
	if err != nil {
		logger.Debugw("novaposhta_cache_read_failed", "city", key, "error", err)
	}
	if found && (!ok || shared.FetchedAt.After(entry.FetchedAt)) {
		c.mu.Lock()
		c.cache[key] = shared
		c.mu.Unlock()
		return shared, true
	}
	return entry, ok
}

func (c *Client) storeCache(ctx context.Context, key string, data []Warehouse) {
	entry := cacheEntry{Data: cloneWarehouses(data), FetchedAt: c.now()}
	c.mu.Lock()
	c.cache[key] = entry
	c.mu.Unlock()
	if err := cache.SetJSON(ctx, warehousesCacheKey(key), entry, staleRetention); err != nil {
		logger.Debugw("novaposhta_cache_write_failed", "city", key, "error", err)
	}
}

func warehousesCacheKey(city string) string {
	return "np:warehouses:" + city
}

func cloneWarehouses(in []Warehouse) []Warehouse {
	out := make([]Warehouse, len(in))
	copy(out, in)
	return out
}

func leadingInt(raw string) int {
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	return n
}

// FilterWarehouses 本地筛选已加载的网点
//
// 纯数字查询：编号完全相同或名称中以独立数字出现，编号完全相同的排在最前，其余按编号、名称排序；
// 文本查询：名称或简短地址包含查询串（不区分大小写），保持原顺序。
func FilterWarehouses(list []Warehouse, query string) []Warehouse {
	query = strings.TrimSpace(query)
	if query == "" {
		return cloneWarehouses(list)
	}
	out := []Warehouse{}
	if isDigits(query) {
		standalone := regexp.MustCompile(`(?:^|\D)` + regexp.QuoteMeta(query) + `(?:\D|$)`)
		for _, wh := range list {
			if wh.Number == query || standalone.MatchString(wh.Name) {
				out = append(out, wh)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if (a.Number == query) != (b.Number == query) {
				return a.Number == query
			}
			na, nb := leadingInt(a.Number), leadingInt(b.Number)
			if na != nb {
				return na < nb
			}
			return a.Name < b.Name
		})
		return out
	}
	needle := strings.ToLower(query)
	for _, wh := range list {
		if strings.Contains(strings.ToLower(wh.Name), needle) ||
			strings.Contains(strings.ToLower(wh.ShortAddress), needle) {
			out = append(out, wh)
		}
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
