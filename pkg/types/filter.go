package types

// Filter represents query parameters for filtering and pagination.
type Filter struct {
	Search         string                 `json:"search,omitempty"`
	Sort           map[string]string      `json:"sort,omitempty"`
	Filter         map[string]interface{} `json:"filter,omitempty"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	Page           int                    `json:"page"`
	WithPagination bool                   `json:"with_pagination"`
}

// Pagination represents pagination metadata.
type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// NewestFirst - фильтр без пагинации, отсортированный по дате создания (новые сверху).
func NewestFirst(where map[string]interface{}) Filter {
	if where == nil {
		where = map[string]interface{}{}
	}
	return Filter{
		Filter: where,
		Sort:   map[string]string{"created_at": "desc"},
	}
}

// http://localhost:8080/api/proposals?sort[created_at]=desc&filter[target_branch]=procurement,finance&limit=10&offset=0&withPagination=true
