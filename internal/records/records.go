// Package records wires the generic store to the two concrete
// collections: products (unique code) and students (unique name, course
// membership).
package records

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/store"
	"github.com/aanand-mishra/records-api/internal/types"
)

// Collection names, also used as storage keys.
const (
	ProductsCollection = "products"
	StudentsCollection = "students"
)

// ProductRules is the product uniqueness rule.
var ProductRules = store.Rules[types.Product]{
	Name:     ProductsCollection,
	KeyField: "code",
	Key:      func(p types.Product) string { return p.Code },
}

// StudentRules is the student uniqueness rule; courses default to empty.
var StudentRules = store.Rules[types.Student]{
	Name:     StudentsCollection,
	KeyField: "name",
	Key:      func(s types.Student) string { return s.Name },
	Normalize: func(s types.Student) types.Student {
		if s.Courses == nil {
			s.Courses = []string{}
		}
		return s
	},
}

// Products is the product manager.
type Products = store.Store[types.Product]

// NewProducts opens the products collection on st.
func NewProducts(ctx context.Context, st storage.Storage, opts ...store.Option) (*Products, error) {
	return store.New(ctx, st, ProductRules, opts...)
}

// FilterByMaxID keeps the products whose id is at most limit. It caps the
// id value, not the number of results.
func FilterByMaxID(products []types.Product, limit int) []types.Product {
	out := make([]types.Product, 0, len(products))
	for _, p := range products {
		if p.ID <= limit {
			out = append(out, p)
		}
	}
	return out
}

// Students is the student manager.
type Students struct {
	*store.Store[types.Student]
}

// NewStudents opens the students collection on st.
func NewStudents(ctx context.Context, st storage.Storage, opts ...store.Option) (*Students, error) {
	s, err := store.New(ctx, st, StudentRules, opts...)
	if err != nil {
		return nil, err
	}
	return &Students{Store: s}, nil
}

// Enroll adds a student from its parts.
func (s *Students) Enroll(ctx context.Context, name string, age float64, courses ...string) (types.Student, error) {
	return s.Add(ctx, types.Student{Name: name, Age: age, Courses: courses})
}

// AddCourse enrolls the student in course. ErrNotFound when the student
// does not exist, ErrConflict when already enrolled.
func (s *Students) AddCourse(ctx context.Context, id int, course string) (types.Student, error) {
	if strings.TrimSpace(course) == "" {
		return types.Student{}, fmt.Errorf("%w: course name is required", store.ErrValidation)
	}
	return s.Modify(ctx, id, func(st *types.Student) error {
		if slices.Contains(st.Courses, course) {
			return fmt.Errorf("%w: student %s already is in the course %s",
				store.ErrConflict, st.Name, course)
		}
		st.Courses = append(st.Courses, course)
		return nil
	})
}

// RemoveCourse drops course from the student's list. Removing a course the
// student is not enrolled in is not an error.
func (s *Students) RemoveCourse(ctx context.Context, id int, course string) (types.Student, error) {
	return s.Modify(ctx, id, func(st *types.Student) error {
		st.Courses = slices.DeleteFunc(st.Courses, func(c string) bool { return c == course })
		return nil
	})
}
