package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)

type QueryParams struct {
	PageNumber int
	PageSize   int
}

// NewQueryParams reads ?page= and ?limit=, falling back to defaults on
// missing or invalid values.
func NewQueryParams(ctx echo.Context) *QueryParams {
	p := &QueryParams{PageNumber: DefaultPageNumber, PageSize: DefaultPageSize}

	if page, err := strconv.Atoi(ctx.QueryParam("page")); err == nil && page > 0 {
		p.PageNumber = page
	}
	if limit, err := strconv.Atoi(ctx.QueryParam("limit")); err == nil && limit > 0 {
		p.PageSize = min(limit, MaxPageSize)
	}
	return p
}

func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
