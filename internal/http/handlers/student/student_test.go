package student

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/records-api/internal/records"
	"github.com/aanand-mishra/records-api/internal/storage/jsonfile"
	"github.com/aanand-mishra/records-api/internal/types"
)

func newRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	path := filepath.Join(t.TempDir(), "usuarios.json")
	students, err := records.NewStudents(context.Background(),
		jsonfile.New(map[string]string{records.StudentsCollection: path}))
	require.NoError(t, err)

	router := http.NewServeMux()
	router.HandleFunc("POST /api/students", New(students))
	router.HandleFunc("GET /api/students", GetList(students))
	router.HandleFunc("GET /api/students/{id}", GetByID(students))
	router.HandleFunc("PUT /api/students/{id}", Update(students))
	router.HandleFunc("DELETE /api/students/{id}", Delete(students))
	router.HandleFunc("POST /api/students/{id}/courses", AddCourse(students))
	router.HandleFunc("DELETE /api/students/{id}/courses/{course}", RemoveCourse(students))
	return router
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, types.Student) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env struct {
		Success bool          `json:"success"`
		Data    types.Student `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	assert.Equal(t, rec.Code < 300, env.Success)
	return rec.Code, env.Data
}

func TestStudentRoutes(t *testing.T) {
	router := newRouter(t)

	code, st := do(t, router, http.MethodPost, "/api/students", `{"name":"Rakesh","age":35}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 1, st.ID)
	assert.Equal(t, []string{}, st.Courses)

	code, _ = do(t, router, http.MethodPost, "/api/students", `{"name":"Rakesh","age":20}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = do(t, router, http.MethodPost, "/api/students", `{"name":"NoAge"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, st = do(t, router, http.MethodPost, "/api/students/1/courses", `{"course":"math"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"math"}, st.Courses)

	code, _ = do(t, router, http.MethodPost, "/api/students/1/courses", `{"course":"math"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = do(t, router, http.MethodPost, "/api/students/9/courses", `{"course":"math"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, st = do(t, router, http.MethodPut, "/api/students/1", `{"age":36}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 36.0, st.Age)
	assert.Equal(t, "Rakesh", st.Name)

	code, st = do(t, router, http.MethodDelete, "/api/students/1/courses/math", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, st.Courses)

	code, st = do(t, router, http.MethodGet, "/api/students/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Rakesh", st.Name)

	code, _ = do(t, router, http.MethodGet, "/api/students/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, router, http.MethodDelete, "/api/students/1", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, router, http.MethodGet, "/api/students/1", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStudentListEmpty(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}
