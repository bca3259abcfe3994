package generate_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilpriver/geni/internal/generate"
	"github.com/emilpriver/geni/internal/migration"
)

func TestNew_writesPair(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	up, down, err := generate.New(dir, "Create Users Table")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(up, "_create_users_table.up.sql"), up)
	assert.True(t, strings.HasSuffix(down, "_create_users_table.down.sql"), down)

	upContent, err := os.ReadFile(up)
	require.NoError(t, err)
	assert.Equal(t, "-- Write your up sql migration here", string(upContent))

	downContent, err := os.ReadFile(down)
	require.NoError(t, err)
	assert.Equal(t, "-- Write your down sql migration here", string(downContent))
}

func TestNew_versionIsNumericUnixTime(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	up, _, err := generate.New(dir, "add_orders")
	require.NoError(t, err)

	base := filepath.Base(up)
	version, _, found := strings.Cut(base, "_")
	require.True(t, found)

	_, err = strconv.ParseInt(version, 10, 64)
	require.NoError(t, err)
}

func TestNew_outputIsDiscoverable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := generate.New(dir, "Create Users")
	require.NoError(t, err)

	ups, err := migration.Discover(dir, migration.DirectionUp)
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "create_users", ups[0].Name)

	downs, err := migration.Discover(dir, migration.DirectionDown)
	require.NoError(t, err)
	require.Len(t, downs, 1)
	assert.Equal(t, ups[0].Version, downs[0].Version)
}

func TestNew_createsMissingFolder(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "db", "migrations")

	up, down, err := generate.New(dir, "init")

	require.NoError(t, err)
	assert.FileExists(t, up)
	assert.FileExists(t, down)
}
