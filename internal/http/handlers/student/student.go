// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a store. Each
// factory below accepts the students manager once, at route registration,
// and returns a function with the exact signature the router needs:
//
//	router.HandleFunc("POST /api/students", student.New(students))
package student

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/records-api/internal/store"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/utils/response"
)

// Store is the subset of the students manager the handlers need.
type Store interface {
	List(ctx context.Context) ([]types.Student, error)
	GetByID(ctx context.Context, id int) (types.Student, bool, error)
	Add(ctx context.Context, s types.Student) (types.Student, error)
	Update(ctx context.Context, id int, patch store.Patch[types.Student]) (types.Student, error)
	Delete(ctx context.Context, id int) error
	AddCourse(ctx context.Context, id int, course string) (types.Student, error)
	RemoveCourse(ctx context.Context, id int, course string) (types.Student, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
//
// Request body (JSON):
//
//	{ "name": "Rakesh", "age": 35, "courses": ["math"] }
//
// Success response (201 Created):
//
//	{ "success": true, "data": { "id": 1, "name": "Rakesh", ... } }
//
// Error responses:
//
//	400 Bad Request   empty body, malformed JSON, or failed validation
//	409 Conflict      a student with that name already exists
//	500 Internal      storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(students Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var student types.Student
		if !decode(w, r, &student) {
			return
		}

		stored, err := students.Add(r.Context(), student)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("student created", slog.Int("id", stored.ID))
		response.WriteJSON(w, http.StatusCreated, response.OK(stored))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
//
// Error responses:
//
//	400 Bad Request   id is not a valid integer
//	404 Not Found     no student with that id
//	500 Internal      storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(students Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int("id", id))

		student, found, err := students.GetByID(r.Context(), id)
		if err != nil {
			slog.Error("error getting student",
				slog.Int("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}
		if !found {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(errors.New("no student found with id: "+strconv.Itoa(id))))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK(student))
	}
}

// GetList handles GET /api/students. The data payload is [] (not null)
// when there are no students.
func GetList(students Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		list, err := students.List(r.Context())
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK(list))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Merges the fields present in the body onto the stored student.
//
//	{ "age": 36 }
//
// Error responses:
//
//	400 Bad Request   invalid id, empty body, or validation failure
//	404 Not Found     no student with that id
//	409 Conflict      the new name is taken
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(students Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int("id", id))

		var patch types.StudentPatch
		if !decode(w, r, &patch) {
			return
		}

		updated, err := students.Update(r.Context(), id, patch)
		if err != nil {
			slog.Error("error updating student",
				slog.Int("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("student updated", slog.Int("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(updated))
	}
}

// Delete handles DELETE /api/students/{id}. Deleting an unknown id
// succeeds.
func Delete(students Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int("id", id))

		if err := students.Delete(r.Context(), id); err != nil {
			slog.Error("error deleting student",
				slog.Int("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("student deleted", slog.Int("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(map[string]int{"id": id}))
	}
}

// courseRequest is the body of POST /api/students/{id}/courses.
type courseRequest struct {
	Course string `json:"course"`
}

// ─────────────────────────────────────────────────────────────────────────────
// AddCourse handles POST /api/students/{id}/courses
//
//	{ "course": "math" }
//
// Error responses:
//
//	400 Bad Request   invalid id or empty course
//	404 Not Found     no student with that id
//	409 Conflict      already enrolled
//
// ─────────────────────────────────────────────────────────────────────────────
func AddCourse(students Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var req courseRequest
		if !decode(w, r, &req) {
			return
		}
		slog.Info("adding course", slog.Int("id", id), slog.String("course", req.Course))

		updated, err := students.AddCourse(r.Context(), id, req.Course)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK(updated))
	}
}

// RemoveCourse handles DELETE /api/students/{id}/courses/{course}.
func RemoveCourse(students Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		course := r.PathValue("course")
		slog.Info("removing course", slog.Int("id", id), slog.String("course", course))

		updated, err := students.RemoveCourse(r.Context(), id, course)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK(updated))
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}
