package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"herbstore/internal/domain"
	"herbstore/internal/kvstore"
	"herbstore/internal/service/catalog"
	customersvc "herbstore/internal/service/customer"
	"herbstore/internal/session"

	"github.com/gin-gonic/gin"
)

type stubCatalog struct {
	products []domain.Product
}

func (s *stubCatalog) List(_ context.Context, q catalog.ListQuery) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		if q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubCatalog) Get(_ context.Context, id string) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) Related(_ context.Context, id string) ([]domain.Product, error) {
	if _, err := s.Get(context.Background(), id); err != nil {
		return nil, err
	}
	return nil, nil
}

type stubCustomers struct {
	mu       sync.Mutex
	byEmail  map[string]*domain.Customer
	byToken  map[string]string
	nextID   int
	loginErr error
}

func newStubCustomers() *stubCustomers {
	return &stubCustomers{
		byEmail: make(map[string]*domain.Customer),
		byToken: make(map[string]string),
	}
}

func (s *stubCustomers) Signup(_ context.Context, in customersvc.SignupInput) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[in.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	s.nextID++
	c := &domain.Customer{
		ID:        "cust-" + strings.Repeat("x", s.nextID),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	s.byEmail[in.Email] = c
	return c, nil
}

func (s *stubCustomers) Login(_ context.Context, email, password string) (*domain.Customer, string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loginErr != nil {
		return nil, "", "", s.loginErr
	}
	c, ok := s.byEmail[email]
	if !ok || password != "Sunshine7" {
		return nil, "", "", customersvc.ErrInvalidCredentials
	}
	access := "access-" + c.ID
	s.byToken[access] = c.ID
	return c, access, "refresh-" + c.ID, nil
}

func (s *stubCustomers) LookupByToken(_ context.Context, token string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byToken[token]
	if !ok {
		return nil, customersvc.ErrInvalidToken
	}
	for _, c := range s.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, customersvc.ErrInvalidToken
}

func (s *stubCustomers) Logout(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
	return nil
}

func (s *stubCustomers) AccessTTLSeconds() int { return 172800 }

// stubSnapshotStore is an in-memory remote cart backend. saved is signaled
// on every Save so tests can wait out the fire-and-forget goroutine.
type stubSnapshotStore struct {
	mu        sync.Mutex
	snapshots map[string][]domain.LineItem
	saved     chan struct{}
}

func newStubSnapshotStore() *stubSnapshotStore {
	return &stubSnapshotStore{
		snapshots: make(map[string][]domain.LineItem),
		saved:     make(chan struct{}, 16),
	}
}

func (s *stubSnapshotStore) Load(_ context.Context, customerID string) ([]domain.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.LineItem(nil), s.snapshots[customerID]...), nil
}

func (s *stubSnapshotStore) Save(_ context.Context, customerID string, items []domain.LineItem) error {
	s.mu.Lock()
	s.snapshots[customerID] = append([]domain.LineItem(nil), items...)
	s.mu.Unlock()
	select {
	case s.saved <- struct{}{}:
	default:
	}
	return nil
}

type testEnv struct {
	t         *testing.T
	router    *gin.Engine
	catalog   *stubCatalog
	customers *stubCustomers
	remote    *stubSnapshotStore
	local     kvstore.Store
	cookie    *http.Cookie
	bearer    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cat := &stubCatalog{products: []domain.Product{
		{ID: "p1", Name: "Aloe Vera Gel", Category: "skin-care", Images: []string{"/img/aloe.jpg"},
			Sizes: []domain.Variant{{Size: "100g", Price: 199, Stock: 10, SKU: "ALOE-100"}}},
		{ID: "p2", Name: "Herbal Tooth Powder", Category: "oral-care",
			Sizes: []domain.Variant{{Size: "50g", Price: 149, Stock: 3, SKU: "HTP-50"}}},
	}}
	customers := newStubCustomers()
	remote := newStubSnapshotStore()
	local := kvstore.NewMemory()
	logger := log.New(io.Discard, "", 0)

	router, err := buildRouter(logger, nil, Deps{
		CatalogSvc:  cat,
		CustomerSvc: customers,
		Sessions:    session.NewRegistry(local, remote, logger),
	}, []string{"http://localhost:5173"})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return &testEnv{
		t:         t,
		router:    router,
		catalog:   cat,
		customers: customers,
		remote:    remote,
		local:     local,
	}
}

// do performs a request, carrying the session cookie and bearer token
// across calls the way a browser would.
func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	if e.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+e.bearer)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			e.cookie = c
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz_NoDatabase(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a database, got %d", rec.Code)
	}
}

func TestListCategories(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[struct {
		Categories []categoryView `json:"categories"`
	}](t, rec)
	if len(body.Categories) != 4 || body.Categories[0].Value != "all" {
		t.Fatalf("unexpected categories %+v", body.Categories)
	}
}

func TestListProducts_FilterPassedThrough(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/products?category=skin-care", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[struct {
		Products []domain.Product `json:"products"`
		Total    int              `json:"total"`
	}](t, rec)
	if body.Total != 1 || body.Products[0].ID != "p1" {
		t.Fatalf("unexpected listing %+v", body)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/products/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSessionCookie_IssuedOnceAndReused(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodGet, "/cart", "")
	if env.cookie == nil || env.cookie.Value == "" {
		t.Fatalf("expected session cookie on first cart request")
	}
	first := env.cookie.Value

	rec := env.do(http.MethodGet, "/cart", "")
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			t.Fatalf("cookie re-issued for a known session")
		}
	}
	if env.cookie.Value != first {
		t.Fatalf("session id changed between requests")
	}
}

func TestFiniteAggregates(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)
	if !finiteAggregates(100, 100) {
		t.Fatalf("finite values rejected")
	}
	for _, bad := range [][2]float64{{nan, 100}, {100, nan}, {inf, 100}, {100, math.Inf(-1)}} {
		if finiteAggregates(bad[0], bad[1]) {
			t.Fatalf("non-finite pair %v accepted", bad)
		}
	}
}
