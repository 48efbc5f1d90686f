package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastour-id/mastour-server/internal/types"
)

var allowed = []string{"id", "name", "created_at"}

func TestNormalize_Defaults(t *testing.T) {
	p, err := Normalize(types.ReadManyParams{}, allowed, "name")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.Size)
	assert.Equal(t, "name", p.OrderBy)
	assert.Equal(t, "ASC", p.Direction)
}

func TestNormalize_ClampsPageSize(t *testing.T) {
	p, err := Normalize(types.ReadManyParams{Page: -3, Size: 5000}, allowed, "name")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.Size)
}

func TestNormalize_RejectsUnknownColumns(t *testing.T) {
	_, err := Normalize(types.ReadManyParams{OrderBy: "password"}, allowed, "name")
	assert.ErrorIs(t, err, types.ErrBadRequest)

	_, err = Normalize(types.ReadManyParams{SearchBy: "password; DROP TABLE users", SearchQuery: "x"}, allowed, "name")
	assert.ErrorIs(t, err, types.ErrBadRequest)

	_, err = Normalize(types.ReadManyParams{SearchQuery: "x"}, allowed, "name")
	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestNormalize_Direction(t *testing.T) {
	p, err := Normalize(types.ReadManyParams{Direction: "DESC"}, allowed, "name")
	require.NoError(t, err)
	assert.Equal(t, "DESC", p.Direction)

	_, err = Normalize(types.ReadManyParams{Direction: "sideways"}, allowed, "name")
	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestFilter(t *testing.T) {
	p, err := Normalize(types.ReadManyParams{SearchBy: "name", SearchQuery: "BaLi"}, allowed, "name")
	require.NoError(t, err)

	clause, args := Filter(p, 2)
	assert.Equal(t, "LOWER(name::text) LIKE $2", clause)
	assert.Equal(t, []any{"%bali%"}, args)

	clause, args = Filter(types.ReadManyParams{}, 1)
	assert.Empty(t, clause)
	assert.Nil(t, args)
}

func TestOrderAndPage(t *testing.T) {
	p, err := Normalize(types.ReadManyParams{OrderBy: "created_at", Direction: "desc", Page: 3, Size: 20}, allowed, "name")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY created_at DESC LIMIT 20 OFFSET 40", OrderAndPage(p))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, types.PaginationInfo{Rows: 0, Pages: 0}, Pagination(0, 10))
	assert.Equal(t, types.PaginationInfo{Rows: 10, Pages: 1}, Pagination(10, 10))
	assert.Equal(t, types.PaginationInfo{Rows: 11, Pages: 2}, Pagination(11, 10))
	assert.Equal(t, types.PaginationInfo{Rows: 95, Pages: 10}, Pagination(95, 10))
}
