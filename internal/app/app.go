// Package app opens the configured storage backend, builds both record
// managers on top of it and registers their HTTP routes. The server and
// the CLI share it so they always agree on where data lives.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/http/handlers/product"
	"github.com/aanand-mishra/records-api/internal/http/handlers/student"
	"github.com/aanand-mishra/records-api/internal/records"
	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/storage/jsonfile"
	"github.com/aanand-mishra/records-api/internal/storage/sqlite"
	"github.com/aanand-mishra/records-api/internal/store"
)

// App holds the two managers and the backend they share.
type App struct {
	Products *records.Products
	Students *records.Students

	close func() error
}

// OpenStorage returns the backend selected by cfg.Storage.Driver and a
// function releasing it.
func OpenStorage(cfg config.Storage) (storage.Storage, func() error, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.DriverJSON, "":
		files := jsonfile.New(map[string]string{
			records.ProductsCollection: cfg.ProductsPath,
			records.StudentsCollection: cfg.StudentsPath,
		})
		return files, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("app: unknown storage driver %q", cfg.Driver)
	}
}

// Open builds both managers over the configured backend.
func Open(ctx context.Context, cfg *config.Config, opts ...store.Option) (*App, error) {
	st, closeFn, err := OpenStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	products, err := records.NewProducts(ctx, st, opts...)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("app: open products: %w", err)
	}
	students, err := records.NewStudents(ctx, st, opts...)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("app: open students: %w", err)
	}

	return &App{Products: products, Students: students, close: closeFn}, nil
}

// Close releases the backend.
func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

// Routes registers every record route on a new ServeMux.
//
// Route table:
//
//	GET    /api/productos                          list (optional ?limit=)
//	GET    /api/productos/{pid}                    get one
//	POST   /api/productos                          create
//	PUT    /api/productos/{pid}                    partial update
//	DELETE /api/productos/{pid}                    delete
//	GET    /api/students                           list
//	POST   /api/students                           create
//	GET    /api/students/{id}                      get one
//	PUT    /api/students/{id}                      partial update
//	DELETE /api/students/{id}                      delete
//	POST   /api/students/{id}/courses              enroll
//	DELETE /api/students/{id}/courses/{course}     unenroll
func (a *App) Routes() *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /api/productos", product.GetList(a.Products))
	router.HandleFunc("GET /api/productos/{pid}", product.GetByID(a.Products))
	router.HandleFunc("POST /api/productos", product.New(a.Products))
	router.HandleFunc("PUT /api/productos/{pid}", product.Update(a.Products))
	router.HandleFunc("DELETE /api/productos/{pid}", product.Delete(a.Products))

	router.HandleFunc("GET /api/students", student.GetList(a.Students))
	router.HandleFunc("POST /api/students", student.New(a.Students))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(a.Students))
	router.HandleFunc("PUT /api/students/{id}", student.Update(a.Students))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(a.Students))
	router.HandleFunc("POST /api/students/{id}/courses", student.AddCourse(a.Students))
	router.HandleFunc("DELETE /api/students/{id}/courses/{course}", student.RemoveCourse(a.Students))

	return router
}
