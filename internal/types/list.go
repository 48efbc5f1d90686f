package types

// ReadManyParams are the generic listing options: substring search on one
// column, sort column/direction, and 1-indexed pagination.
type ReadManyParams struct {
	SearchBy    string `json:"search_by,omitempty"`
	SearchQuery string `json:"search_query,omitempty"`
	OrderBy     string `json:"order_by,omitempty"`
	Direction   string `json:"direction,omitempty"`
	Page        int    `json:"page"`
	Size        int    `json:"size"`
}

// PaginationInfo reports total rows and page count for a listing.
type PaginationInfo struct {
	Rows  int `json:"rows"`
	Pages int `json:"pages"`
}
