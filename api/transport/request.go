package transport

// ProductCreateRequest is the write-side create payload.
type ProductCreateRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// ProductUpdateRequest carries only the fields the caller wants changed;
// absent fields stay untouched.
type ProductUpdateRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
}
