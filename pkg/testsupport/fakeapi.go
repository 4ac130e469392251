// Package testsupport holds fixtures and an in-memory stand-in for the
// inventory REST API, for tests only.
package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-inventory-cache/model"
)

type route struct {
	method string
	path   string
}

type failure struct {
	status int
	times  int
}

// FakeAPI serves /products and /categories from memory. It counts calls per
// route, can fail or hold requests on demand and records the last
// Authorization header it saw.
type FakeAPI struct {
	server *httptest.Server

	mu         sync.Mutex
	categories []model.Category
	products   []model.Product
	calls      map[route]int
	failures   map[route]*failure
	holds      map[route]chan struct{}
	lastAuth   string
	now        func() time.Time
}

// NewFakeAPI starts the server and registers its shutdown with t.Cleanup.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		calls:    make(map[route]int),
		failures: make(map[route]*failure),
		holds:    make(map[route]chan struct{}),
		now:      func() time.Time { return time.Now().UTC() },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", f.listProducts)
	mux.HandleFunc("GET /products/{id}", f.getProduct)
	mux.HandleFunc("POST /products", f.createProduct)
	mux.HandleFunc("PUT /products/{id}", f.updateProduct)
	mux.HandleFunc("DELETE /products/{id}", f.deleteProduct)
	mux.HandleFunc("GET /categories", f.listCategories)
	mux.HandleFunc("GET /categories/{id}", f.getCategory)
	mux.HandleFunc("POST /categories", f.createCategory)
	mux.HandleFunc("PUT /categories/{id}", f.updateCategory)
	mux.HandleFunc("DELETE /categories/{id}", f.deleteCategory)

	f.server = httptest.NewServer(f.intercept(mux))
	t.Cleanup(f.Close)
	return f
}

// URL is the base address of the fake.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// Close stops the server, releasing any held requests first.
func (f *FakeAPI) Close() {
	f.mu.Lock()
	for r, ch := range f.holds {
		close(ch)
		delete(f.holds, r)
	}
	f.mu.Unlock()
	f.server.Close()
}

// Seed replaces both collections.
func (f *FakeAPI) Seed(c Catalog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = append([]model.Category(nil), c.Categories...)
	f.products = append([]model.Product(nil), c.Products...)
}

// SeedCategories replaces the category collection.
func (f *FakeAPI) SeedCategories(categories ...model.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = append([]model.Category(nil), categories...)
}

// SeedProducts replaces the product collection.
func (f *FakeAPI) SeedProducts(products ...model.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append([]model.Product(nil), products...)
}

// Calls returns how many requests hit method+path, e.g. ("GET", "/products").
func (f *FakeAPI) Calls(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route{method, path}]
}

// FailNext makes the next n requests to method+path answer status.
func (f *FakeAPI) FailNext(method, path string, status, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route{method, path}] = &failure{status: status, times: n}
}

// Hold blocks requests to method+path until the returned release func runs.
func (f *FakeAPI) Hold(method, path string) (release func()) {
	ch := make(chan struct{})
	r := route{method, path}
	f.mu.Lock()
	f.holds[r] = ch
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.holds[r] == ch {
				delete(f.holds, r)
				close(ch)
			}
			f.mu.Unlock()
		})
	}
}

// LastAuthorization returns the Authorization header of the latest request.
func (f *FakeAPI) LastAuthorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func (f *FakeAPI) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := route{r.Method, r.URL.Path}

		f.mu.Lock()
		f.calls[key]++
		f.lastAuth = r.Header.Get("Authorization")
		hold := f.holds[key]
		var status int
		if fail, ok := f.failures[key]; ok && fail.times > 0 {
			fail.times--
			status = fail.status
		}
		f.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		if status != 0 {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
}

func (f *FakeAPI) listProducts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	out := append([]model.Product{}, f.products...)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) getProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	notFound(w)
}

func (f *FakeAPI) createProduct(w http.ResponseWriter, r *http.Request) {
	var dto model.CreateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := model.NewTimestamp(f.now())
	p := model.Product{
		ID:          uuid.NewString(),
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Stock:       dto.Stock,
		CategoryID:  dto.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.products = append(f.products, p)
	writeJSON(w, http.StatusCreated, p)
}

func (f *FakeAPI) updateProduct(w http.ResponseWriter, r *http.Request) {
	var dto model.UpdateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		p := &f.products[i]
		if p.ID != r.PathValue("id") {
			continue
		}
		if dto.Name != nil {
			p.Name = *dto.Name
		}
		if dto.Description != nil {
			p.Description = *dto.Description
		}
		if dto.Price != nil {
			p.Price = *dto.Price
		}
		if dto.Stock != nil {
			p.Stock = *dto.Stock
		}
		if dto.CategoryID != nil {
			p.CategoryID = *dto.CategoryID
		}
		p.UpdatedAt = model.NewTimestamp(f.now())
		writeJSON(w, http.StatusOK, *p)
		return
	}
	notFound(w)
}

func (f *FakeAPI) deleteProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if p.ID == r.PathValue("id") {
			f.products = append(f.products[:i], f.products[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	notFound(w)
}

func (f *FakeAPI) listCategories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	out := append([]model.Category{}, f.categories...)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) getCategory(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	notFound(w)
}

func (f *FakeAPI) createCategory(w http.ResponseWriter, r *http.Request) {
	var dto model.CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := model.Category{
		ID:          uuid.NewString(),
		Name:        dto.Name,
		Description: dto.Description,
		CreatedAt:   model.NewTimestamp(f.now()),
	}
	f.categories = append(f.categories, c)
	writeJSON(w, http.StatusCreated, c)
}

func (f *FakeAPI) updateCategory(w http.ResponseWriter, r *http.Request) {
	var dto model.UpdateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.categories {
		c := &f.categories[i]
		if c.ID != r.PathValue("id") {
			continue
		}
		if dto.Name != nil {
			c.Name = *dto.Name
		}
		if dto.Description != nil {
			c.Description = *dto.Description
		}
		writeJSON(w, http.StatusOK, *c)
		return
	}
	notFound(w)
}

func (f *FakeAPI) deleteCategory(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.categories {
		if c.ID == r.PathValue("id") {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	notFound(w)
}
