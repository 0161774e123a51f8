package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

// PaginationState describes the returned page. Indexes are 1-based.
type PaginationState struct {
	TotalData   int64 `json:"totalData"`
	DataPerPage int   `json:"dataPerPage"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
	StartIndex  int64 `json:"startIndex"`
	EndIndex    int64 `json:"endIndex"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// PaginatedResponse wraps a page of data. AdditionalInfo echoes the resolved
// category/order and the keys the endpoint accepts, where applicable.
type PaginatedResponse struct {
	PaginationState PaginationState        `json:"paginationState"`
	Data            interface{}            `json:"data"`
	AdditionalInfo  map[string]interface{} `json:"additionalInfo,omitempty"`
}

// NewPaginatedResponse computes the pagination metadata for one page.
func NewPaginatedResponse(data interface{}, page, limit int, total int64, additionalInfo map[string]interface{}) PaginatedResponse {
	totalPages := (total + int64(limit) - 1) / int64(limit)
	startIndex := int64(page-1)*int64(limit) + 1
	endIndex := int64(page) * int64(limit)
	if endIndex > total {
		endIndex = total
	}

	return PaginatedResponse{
		PaginationState: PaginationState{
			TotalData:   total,
			DataPerPage: limit,
			CurrentPage: page,
			TotalPages:  totalPages,
			StartIndex:  startIndex,
			EndIndex:    endIndex,
			HasNextPage: int64(page) < totalPages,
			HasPrevPage: page > 1,
		},
		Data:           data,
		AdditionalInfo: additionalInfo,
	}
}
