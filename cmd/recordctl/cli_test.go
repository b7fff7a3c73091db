package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/records-api/internal/app"
	"github.com/aanand-mishra/records-api/internal/store"
	"github.com/aanand-mishra/records-api/internal/types"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	return writeDriverConfig(t, "json")
}

func writeDriverConfig(t *testing.T, driver string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := fmt.Sprintf(`env: "prod"
storage:
  driver: %q
  products_path: %q
  students_path: %q
  sqlite_path: %q
`, driver, filepath.Join(dir, "productos.json"), filepath.Join(dir, "usuarios.json"), filepath.Join(dir, "records.db"))
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	root, c := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfgPath, "--json"}, args...))
	err := c.execute(context.Background(), root)
	return out.String(), err
}

func TestProductCommands(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "product", "add",
		"--title", "Producto 1", "--description", "d", "--price", "10.99",
		"--thumbnail", "i.jpg", "--code", "P001", "--stock", "50")
	require.NoError(t, err)
	var added []types.Product
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	require.Len(t, added, 1)
	assert.Equal(t, 1, added[0].ID)

	_, err = execute(t, cfg, "product", "add",
		"--title", "Otro", "--description", "d", "--price", "1",
		"--thumbnail", "o.jpg", "--code", "P001", "--stock", "1")
	require.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, exitUserError, exitCode(err))

	out, err = execute(t, cfg, "product", "update", "1", "--price", "15.99")
	require.NoError(t, err)
	var updated []types.Product
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, 15.99, updated[0].Price)
	assert.Equal(t, 50, updated[0].Stock)

	out, err = execute(t, cfg, "product", "list", "--limit", "0")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)

	_, err = execute(t, cfg, "product", "delete", "1")
	require.NoError(t, err)

	_, err = execute(t, cfg, "product", "get", "1")
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestStudentCommands(t *testing.T) {
	cfg := writeConfig(t)

	_, err := execute(t, cfg, "student", "add", "--name", "Ana", "--age", "21", "--course", "math")
	require.NoError(t, err)

	out, err := execute(t, cfg, "student", "add-course", "1", "art")
	require.NoError(t, err)
	var got []types.Student
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"math", "art"}, got[0].Courses)

	_, err = execute(t, cfg, "student", "add-course", "1", "art")
	require.ErrorIs(t, err, store.ErrConflict)

	_, err = execute(t, cfg, "student", "get", "7")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = execute(t, cfg, "student", "remove-course", "7", "art")
	require.ErrorIs(t, err, store.ErrNotFound)

	out, err = execute(t, cfg, "student", "remove-course", "1", "math")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"art"}, got[0].Courses)
}

func TestCorruptFileIsSystemError(t *testing.T) {
	cfg := writeConfig(t)
	products := filepath.Join(filepath.Dir(cfg), "productos.json")
	require.NoError(t, os.WriteFile(products, []byte("{"), 0o644))

	_, err := execute(t, cfg, "product", "list")
	require.ErrorIs(t, err, store.ErrStorage)
	assert.Equal(t, exitSysError, exitCode(err))
}

func TestFailedCommandReleasesStorage(t *testing.T) {
	cfg := writeDriverConfig(t, "sqlite")
	ctx := context.Background()

	root, c := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", cfg, "product", "get", "9"})

	var opened *app.App
	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		err := preRun(cmd, args)
		opened = c.app
		return err
	}

	err := c.execute(ctx, root)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.NotNil(t, opened)
	assert.Nil(t, c.app)

	_, err = opened.Products.List(ctx)
	require.ErrorIs(t, err, store.ErrStorage, "the database handle must be closed")
}
