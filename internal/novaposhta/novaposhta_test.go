package novaposhta

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeCarrier struct {
	mu        sync.Mutex
	calls     []map[string]interface{}
	postomats string
	branches  string
	all       string
	cities    string
	failAll   atomic.Bool
	limited   atomic.Bool
	gate      chan struct{}
}

func (f *fakeCarrier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey           string                 `json:"apiKey"`
		ModelName        string                 `json:"modelName"`
		CalledMethod     string                 `json:"calledMethod"`
		MethodProperties map[string]interface{} `json:"methodProperties"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	f.calls = append(f.calls, req.MethodProperties)
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	if req.APIKey != "test-key" || req.ModelName != "Address" {
		_, _ = w.Write([]byte(`{"success":false,"errors":["API key is invalid"]}`))
		return
	}
	if f.limited.Load() {
		_, _ = w.Write([]byte(`{"success":false,"errors":["To many requests"]}`))
		return
	}
	if f.failAll.Load() {
		_, _ = w.Write([]byte(`{"success":false,"errors":["Internal error"]}`))
		return
	}
	switch req.CalledMethod {
	case "searchSettlements":
		_, _ = w.Write([]byte(f.cities))
	case "getWarehouses":
		switch req.MethodProperties["TypeOfWarehouse"] {
		case TypePostomat:
			_, _ = w.Write([]byte(f.postomats))
		case TypeBranch:
			_, _ = w.Write([]byte(f.branches))
		default:
			_, _ = w.Write([]byte(f.all))
		}
	}
}

func (f *fakeCarrier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newFakeCarrier() *fakeCarrier {
	return &fakeCarrier{
		cities: `{"success":true,"data":[{"Addresses":[{"DeliveryCity":"ref-kyiv","Present":"м. Київ, Київська обл.","Area":"Київська","Region":""}]}]}`,
		postomats: `{"success":true,"data":[
			{"Ref":"p2","Number":"36511","Description":"Поштомат №36511","TypeOfWarehouse":"Postomat"},
			{"Ref":"b1","Number":"1","Description":"Відділення №1","TypeOfWarehouse":""}
		]}`,
		branches: `{"success":true,"data":[
			{"Ref":"b10","Number":"10","Description":"Відділення №10","TypeOfWarehouse":"9a68df70-0267-11e3-8595-0050568002cf"},
			{"Ref":"b1","Number":"1","Description":"Відділення №1","TypeOfWarehouse":"9a68df70-0267-11e3-8595-0050568002cf"},
			{"Ref":"b2","Number":"2","Description":"Відділення №2","TypeOfWarehouse":"9a68df70-0267-11e3-8595-0050568002cf"}
		]}`,
		all: `{"success":true,"data":[]}`,
	}
}

func newTestClient(t *testing.T, carrier *fakeCarrier) *Client {
	t.Helper()
	srv := httptest.NewServer(carrier)
	t.Cleanup(srv.Close)
	return New(Config{APIURL: srv.URL, APIKey: "test-key", MinInterval: time.Millisecond, Timeout: 2 * time.Second})
}

func TestDisabledClientReturnsEmpty(t *testing.T) {
	carrier := newFakeCarrier()
	srv := httptest.NewServer(carrier)
	defer srv.Close()
	client := New(Config{APIURL: srv.URL})

	cities, err := client.SearchCities(context.Background(), "Київ")
	if err != nil || len(cities) != 0 {
		t.Fatalf("disabled search want empty got %v err=%v", cities, err)
	}
	all, err := client.AllWarehouses(context.Background(), "ref-kyiv", "")
	if err != nil || len(all) != 0 {
		t.Fatalf("disabled warehouses want empty got %v err=%v", all, err)
	}
	if carrier.callCount() != 0 {
		t.Fatalf("disabled client must not call out")
	}
}

func TestSearchCities(t *testing.T) {
	carrier := newFakeCarrier()
	client := newTestClient(t, carrier)

	short, err := client.SearchCities(context.Background(), "К")
	if err != nil || len(short) != 0 || carrier.callCount() != 0 {
		t.Fatalf("single rune query must not call out")
	}
	cities, err := client.SearchCities(context.Background(), "Ки")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(cities) != 1 || cities[0].Ref != "ref-kyiv" || cities[0].Area != "Київська" {
		t.Fatalf("unexpected cities %+v", cities)
	}
	if got := carrier.calls[0]["Limit"]; got != float64(20) {
		t.Fatalf("limit want 20 got %v", got)
	}
}

func TestAllWarehousesMergesAndSorts(t *testing.T) {
	carrier := newFakeCarrier()
	client := newTestClient(t, carrier)

	all, err := client.AllWarehouses(context.Background(), "ref-kyiv", "")
	if err != nil {
		t.Fatalf("all warehouses failed: %v", err)
	}
	var refs []string
	for _, wh := range all {
		refs = append(refs, wh.Ref)
	}
	want := []string{"b1", "b2", "b10", "p2"}
	if len(refs) != len(want) {
		t.Fatalf("refs want %v got %v", want, refs)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Fatalf("refs want %v got %v", want, refs)
		}
	}
	if all[0].Type != TypeBranch {
		t.Fatalf("duplicate should keep typed entry, got %+v", all[0])
	}
	if carrier.calls[0]["CityRef"] != "ref-kyiv" || carrier.calls[0]["Limit"] != float64(1000) {
		t.Fatalf("unexpected props %v", carrier.calls[0])
	}
}

func TestAllWarehousesBranchFallbackExcludesPostomats(t *testing.T) {
	carrier := newFakeCarrier()
	carrier.branches = `{"success":true,"data":[]}`
	carrier.all = `{"success":true,"data":[
		{"Ref":"b5","Number":"5","Description":"Відділення №5","TypeOfWarehouse":"other"},
		{"Ref":"p9","Number":"9","Description":"Поштомат №9","TypeOfWarehouse":"Postomat"}
	]}`
	client := newTestClient(t, carrier)

	all, err := client.AllWarehouses(context.Background(), "", "Київ")
	if err != nil {
		t.Fatalf("all warehouses failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 entries got %+v", all)
	}
	if all[0].Ref != "b1" || all[1].Ref != "b5" || all[2].Ref != "p2" {
		t.Fatalf("branches should come first sorted by number, got %+v", all)
	}
	if carrier.calls[0]["CityName"] != "Київ" {
		t.Fatalf("city name should be used without ref")
	}
}

func TestAllWarehousesCacheAndStaleFallback(t *testing.T) {
	carrier := newFakeCarrier()
	client := newTestClient(t, carrier)
	now := time.Now()
	client.now = func() time.Time { return now }

	if _, err := client.AllWarehouses(context.Background(), "ref-kyiv", ""); err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	calls := carrier.callCount()
	if _, err := client.AllWarehouses(context.Background(), "ref-kyiv", ""); err != nil {
		t.Fatalf("cached load failed: %v", err)
	}
	if carrier.callCount() != calls {
		t.Fatalf("fresh cache must not call out")
	}

	now = now.Add(6 * time.Minute)
	carrier.failAll.Store(true)
	stale, err := client.AllWarehouses(context.Background(), "ref-kyiv", "")
	if err != nil {
		t.Fatalf("stale fallback expected, got %v", err)
	}
	if len(stale) != 4 {
		t.Fatalf("stale data want 4 entries got %d", len(stale))
	}
	if carrier.callCount() == calls {
		t.Fatalf("expired cache should trigger a refetch")
	}
}

func TestTooManyRequestsIsHardFailure(t *testing.T) {
	carrier := newFakeCarrier()
	client := newTestClient(t, carrier)
	now := time.Now()
	client.now = func() time.Time { return now }

	if _, err := client.AllWarehouses(context.Background(), "ref-kyiv", ""); err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	now = now.Add(6 * time.Minute)
	carrier.limited.Store(true)
	_, err := client.AllWarehouses(context.Background(), "ref-kyiv", "")
	if !errors.Is(err, ErrTooManyRequests) {
		t.Fatalf("want ErrTooManyRequests got %v", err)
	}
}

func TestFailureWithoutCacheReturnsError(t *testing.T) {
	carrier := newFakeCarrier()
	carrier.failAll.Store(true)
	client := newTestClient(t, carrier)
	if _, err := client.AllWarehouses(context.Background(), "ref-odesa", ""); !errors.Is(err, ErrAPI) {
		t.Fatalf("want ErrAPI got %v", err)
	}
}

func TestConcurrentLookupsShareOneFetch(t *testing.T) {
	carrier := newFakeCarrier()
	carrier.gate = make(chan struct{})
	client := newTestClient(t, carrier)

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			all, err := client.AllWarehouses(context.Background(), "ref-lviv", "")
			if err == nil {
				results[i] = len(all)
			}
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(carrier.gate)
	wg.Wait()

	for i, n := range results {
		if n != 4 {
			t.Fatalf("result %d want 4 entries got %d", i, n)
		}
	}
	if got := carrier.callCount(); got != 2 {
		t.Fatalf("one shared fetch makes 2 carrier calls, got %d", got)
	}
}

func TestFindWarehouse(t *testing.T) {
	carrier := newFakeCarrier()
	client := newTestClient(t, carrier)

	wh, err := client.FindWarehouse(context.Background(), "ref-kyiv", "", "36511")
	if err != nil || wh == nil || wh.Ref != "p2" {
		t.Fatalf("want postomat p2 got %+v err=%v", wh, err)
	}
	wh, err = client.FindWarehouse(context.Background(), "ref-kyiv", "", "999")
	if err != nil || wh != nil {
		t.Fatalf("unknown number should return nil, got %+v", wh)
	}
	if wh, _ := client.FindWarehouse(context.Background(), "ref-kyiv", "", ""); wh != nil {
		t.Fatalf("empty number should return nil")
	}
}

func TestMergeWarehousesSkipsEmptyRef(t *testing.T) {
	merged := MergeWarehouses([]Warehouse{{Ref: "", Name: "x"}, {Ref: "a", Number: "2"}}, []Warehouse{{Ref: "b", Number: "1"}})
	if len(merged) != 2 || merged[0].Ref != "b" {
		t.Fatalf("unexpected merge %+v", merged)
	}
	if empty := MergeWarehouses(); empty == nil || len(empty) != 0 {
		t.Fatalf("empty merge should be non-nil empty slice")
	}
}

func TestFilterWarehouses(t *testing.T) {
	list := []Warehouse{
		{Ref: "a", Number: "12", Name: "Відділення №12: вул. Садова, 1"},
		{Ref: "b", Number: "1", Name: "Відділення №1: вул. Лісова, 12"},
		{Ref: "c", Number: "112", Name: "Відділення №112: просп. Миру, 3", ShortAddress: "Київ, Миру 3"},
		{Ref: "d", Number: "5", Name: "Поштомат №5"},
	}
	tests := []struct {
		query string
		want  []string
	}{
		{"12", []string{"a", "b"}},
		{"1", []string{"b", "a"}},
		{"миру", []string{"c"}},
		{"ПОШТОМАТ", []string{"d"}},
		{"", []string{"a", "b", "c", "d"}},
		{"999", []string{}},
	}
	for _, tt := range tests {
		got := FilterWarehouses(list, tt.query)
		if len(got) != len(tt.want) {
			t.Fatalf("query %q want %v got %+v", tt.query, tt.want, got)
		}
		for i := range tt.want {
			if got[i].Ref != tt.want[i] {
				t.Fatalf("query %q want %v got %+v", tt.query, tt.want, got)
			}
		}
	}
}
