package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/records-api/internal/records"
	"github.com/aanand-mishra/records-api/internal/storage/jsonfile"
	"github.com/aanand-mishra/records-api/internal/types"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newRouter(t *testing.T) (*http.ServeMux, *records.Products, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "productos.json")
	products, err := records.NewProducts(context.Background(),
		jsonfile.New(map[string]string{records.ProductsCollection: path}))
	require.NoError(t, err)

	router := http.NewServeMux()
	router.HandleFunc("GET /api/productos", GetList(products))
	router.HandleFunc("GET /api/productos/{pid}", GetByID(products))
	router.HandleFunc("POST /api/productos", New(products))
	router.HandleFunc("PUT /api/productos/{pid}", Update(products))
	router.HandleFunc("DELETE /api/productos/{pid}", Delete(products))
	return router, products, path
}

func seed(t *testing.T, products *records.Products, codes ...string) {
	t.Helper()
	for _, code := range codes {
		_, err := products.Add(context.Background(), types.Product{
			Title: "Producto " + code, Description: "d", Price: 10.99,
			Thumbnail: "i.jpg", Code: code, Stock: 50,
		})
		require.NoError(t, err)
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestGetListAll(t *testing.T) {
	router, products, _ := newRouter(t)
	seed(t, products, "P001", "P002", "P003")

	rec, env := do(t, router, http.MethodGet, "/api/productos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var list []types.Product
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 3)
}

func TestGetListEmptyIsArray(t *testing.T) {
	router, _, _ := newRouter(t)

	rec, env := do(t, router, http.MethodGet, "/api/productos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestGetListLimitCapsID(t *testing.T) {
	router, products, _ := newRouter(t)
	seed(t, products, "P001", "P002", "P003")
	require.NoError(t, products.Delete(context.Background(), 1))

	// limit=2 keeps ids <= 2, which is only id 2 now: a cap on the id,
	// not on the number of results.
	rec, env := do(t, router, http.MethodGet, "/api/productos?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []types.Product
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ID)
}

func TestGetListBadLimit(t *testing.T) {
	router, _, _ := newRouter(t)

	rec, env := do(t, router, http.MethodGet, "/api/productos?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Empty(t, env.Data)
}

func TestGetListStorageFailure(t *testing.T) {
	router, _, path := newRouter(t)
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	rec, env := do(t, router, http.MethodGet, "/api/productos", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Empty(t, env.Data)
}

func TestGetByID(t *testing.T) {
	router, products, _ := newRouter(t)
	seed(t, products, "P001")

	rec, env := do(t, router, http.MethodGet, "/api/productos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var p types.Product
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "P001", p.Code)
}

func TestGetByIDFailures(t *testing.T) {
	router, products, _ := newRouter(t)
	seed(t, products, "P001")

	for _, target := range []string{"/api/productos/abc", "/api/productos/7"} {
		rec, env := do(t, router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.False(t, env.Success, target)
		assert.Empty(t, env.Data, target)
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	router, _, _ := newRouter(t)
	body := `{"title":"Producto 1","description":"d","price":10.99,"thumbnail":"i.jpg","code":"P001","stock":50}`

	rec, env := do(t, router, http.MethodPost, "/api/productos", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 1, created.ID)

	rec, _ = do(t, router, http.MethodPost, "/api/productos", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = do(t, router, http.MethodPost, "/api/productos", `{"title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "field Code is required")

	rec, _ = do(t, router, http.MethodPost, "/api/productos", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, router, http.MethodPut, "/api/productos/1", `{"price":15.99}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated types.Product
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	want := created
	want.Price = 15.99
	assert.Equal(t, want, updated)

	rec, _ = do(t, router, http.MethodPut, "/api/productos/9", `{"price":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodDelete, "/api/productos/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/api/productos/1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
