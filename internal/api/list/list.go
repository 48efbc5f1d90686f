// Package list builds the shared search/sort/pagination SQL suffix used by
// the reference-data repositories.
package list

import (
	"fmt"
	"strings"

	"github.com/mastour-id/mastour-server/internal/types"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize fills defaults and validates the listing params against the
// caller's column allowlist. Column names are interpolated into SQL, so
// anything outside the allowlist is rejected up front.
func Normalize(p types.ReadManyParams, allowed []string, defaultOrderBy string) (types.ReadManyParams, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}

	if p.OrderBy == "" {
		p.OrderBy = defaultOrderBy
	}
	if !isAllowed(p.OrderBy, allowed) {
		return p, fmt.Errorf("%w: cannot order by %q", types.ErrBadRequest, p.OrderBy)
	}

	switch strings.ToLower(p.Direction) {
	case "", "asc":
		p.Direction = "ASC"
	case "desc":
		p.Direction = "DESC"
	default:
		return p, fmt.Errorf("%w: invalid sort direction %q", types.ErrBadRequest, p.Direction)
	}

	if p.SearchQuery != "" {
		if p.SearchBy == "" {
			return p, fmt.Errorf("%w: search_by is required with search_query", types.ErrBadRequest)
		}
		if !isAllowed(p.SearchBy, allowed) {
			return p, fmt.Errorf("%w: cannot search by %q", types.ErrBadRequest, p.SearchBy)
		}
	}
	return p, nil
}

// Filter returns a WHERE fragment (or empty string) plus its argument.
// The search is a case-insensitive substring match on the chosen column.
// Call Normalize first; Filter trusts the column name.
func Filter(p types.ReadManyParams, argIndex int) (string, []any) {
	if p.SearchQuery == "" {
		return "", nil
	}
	clause := fmt.Sprintf("LOWER(%s::text) LIKE $%d", p.SearchBy, argIndex)
	return clause, []any{"%" + strings.ToLower(p.SearchQuery) + "%"}
}

// OrderAndPage returns the ORDER BY / LIMIT / OFFSET suffix.
// Call Normalize first; OrderAndPage trusts the column name and direction.
func OrderAndPage(p types.ReadManyParams) string {
	offset := (p.Page - 1) * p.Size
	return fmt.Sprintf("ORDER BY %s %s LIMIT %d OFFSET %d", p.OrderBy, p.Direction, p.Size, offset)
}

// Pagination derives the page count from a total row count.
func Pagination(rows, size int) types.PaginationInfo {
	if size < 1 {
		size = DefaultPageSize
	}
	pages := rows / size
	if rows%size != 0 {
		pages++
	}
	return types.PaginationInfo{Rows: rows, Pages: pages}
}

func isAllowed(column string, allowed []string) bool {
	for _, a := range allowed {
		if column == a {
			return true
		}
	}
	return false
}
