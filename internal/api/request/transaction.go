package request

// CreateTransactionRequest represents the request body for recording a buy or sell order.
type CreateTransactionRequest struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
	Notes  string  `json:"notes"`
}

// ListTransactionsRequest carries the query parameters of a transaction listing.
type ListTransactionsRequest struct {
	Limit  int
	Offset int
	Type   string
}
