package pagination

import "strconv"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params son los parámetros de paginación que llegan por query string.
type Params struct {
	Page     int `form:"page" json:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" json:"page_size" binding:"omitempty,min=1,max=100"`
}

// Window es el par skip/limit que se pasa al storage.
type Window struct {
	Skip  int64
	Limit int64
}

// Meta describe la página devuelta al cliente.
type Meta struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int64 `json:"total_pages"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// Page es la vista canónica de un listado paginado.
type Page[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

// WithDefaults completa los valores omitidos.
func (p Params) WithDefaults() Params {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Window traduce page/page_size a skip/limit.
func (p Params) Window() Window {
	p = p.WithDefaults()
	return Window{
		Skip:  int64(p.Page-1) * int64(p.PageSize),
		Limit: int64(p.PageSize),
	}
}

// BuildMeta calcula la metadata de respuesta a partir del total filtrado.
func BuildMeta(p Params, totalItems int64) Meta {
	p = p.WithDefaults()

	var totalPages int64
	if totalItems > 0 {
		size := int64(p.PageSize)
		totalPages = (totalItems + size - 1) / size
	}

	return Meta{
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasPrevious: p.Page > 1,
		HasNext:     int64(p.Page) < totalPages,
	}
}

// NewPage arma la respuesta {items, meta}. items nunca se serializa como null.
func NewPage[T any](items []T, p Params, totalItems int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Meta: BuildMeta(p, totalItems)}
}

// OffsetParams son los parámetros del listado legacy (limit/offset).
type OffsetParams struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Window traduce limit/offset a skip/limit.
func (p OffsetParams) Window() Window {
	if p.Limit == 0 {
		p.Limit = DefaultPageSize
	}
	return Window{Skip: int64(p.Offset), Limit: int64(p.Limit)}
}

// OffsetInfo es la vista legacy basada en offsets: next/previous son offsets en texto.
type OffsetInfo struct {
	Limit    int     `json:"limit"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// OffsetPage es la respuesta legacy {data, page}.
type OffsetPage[T any] struct {
	Data []T        `json:"data"`
	Page OffsetInfo `json:"page"`
}

// BuildOffsetInfo calcula next/previous como offsets. totalCount puede ser nil
// cuando el total no se conoce; en ese caso solo hasMore decide si hay siguiente.
func BuildOffsetInfo(limit, offset int, totalCount *int64, hasMore bool) OffsetInfo {
	info := OffsetInfo{Limit: limit}

	if hasMore || (totalCount != nil && int64(offset+limit) < *totalCount) {
		next := strconv.Itoa(offset + limit)
		info.Next = &next
	}

	if offset > 0 {
		prev := strconv.Itoa(max(0, offset-limit))
		info.Previous = &prev
	}

	return info
}

// NewOffsetPage arma la respuesta legacy.
func NewOffsetPage[T any](items []T, info OffsetInfo) OffsetPage[T] {
	if items == nil {
		items = []T{}
	}
	return OffsetPage[T]{Data: items, Page: info}
}
