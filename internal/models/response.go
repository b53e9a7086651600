package models

// ProductsResponse is the JSON body of the paginated product listing.
type ProductsResponse struct {
	Data       []ProductRecord `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

type Pagination struct {
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// ErrorResponse is returned by the API for any non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}
