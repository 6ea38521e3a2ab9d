package request

// ProductListRequest is parsed from the query string of GET /api/products
type ProductListRequest struct {
	Query    string `validate:"max=200"`
	Price    string `validate:"omitempty,max=32"` // "low-high"
	Rating   int    `validate:"min=0,max=5"`
	Category string `validate:"omitempty,uuid"`
	Page     int
}
