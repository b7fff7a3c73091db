// Package types holds the entity shapes stored by the record managers.
// Keeping them in one place prevents import cycles: handlers, storage and
// the CLI can all import types without depending on each other.
package types

// Product is one entry of the products collection.
//
// Every field except ID carries validate:"required", which rejects zero
// values: a price or stock of 0 and an empty string all fail validation.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"required"`
	Thumbnail   string  `json:"thumbnail"   validate:"required"`
	Code        string  `json:"code"        validate:"required"`
	Stock       int     `json:"stock"       validate:"required"`
}

// EntityID returns the store-assigned id.
func (p Product) EntityID() int { return p.ID }

// WithID returns a copy of p carrying id.
func (p Product) WithID(id int) Product {
	p.ID = id
	return p
}

// ProductPatch is a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
	Code        *string  `json:"code,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}

// Apply shallow-merges the set fields of patch onto p.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Thumbnail != nil {
		p.Thumbnail = *patch.Thumbnail
	}
	if patch.Code != nil {
		p.Code = *patch.Code
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
}

// Student is one entry of the students collection.
// Courses is never null in the stored document.
type Student struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"    validate:"required"`
	Age     float64  `json:"age"     validate:"required"`
	Courses []string `json:"courses"`
}

// EntityID returns the store-assigned id.
func (s Student) EntityID() int { return s.ID }

// WithID returns a copy of s carrying id.
func (s Student) WithID(id int) Student {
	s.ID = id
	return s
}

// StudentPatch is a partial update. Nil fields are left untouched.
type StudentPatch struct {
	Name    *string   `json:"name,omitempty"`
	Age     *float64  `json:"age,omitempty"`
	Courses *[]string `json:"courses,omitempty"`
}

// Apply shallow-merges the set fields of patch onto s.
func (patch StudentPatch) Apply(s *Student) {
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Age != nil {
		s.Age = *patch.Age
	}
	if patch.Courses != nil {
		s.Courses = append([]string(nil), (*patch.Courses)...)
	}
}
