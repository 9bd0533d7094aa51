package model

import "time"

// Transaction types.
const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
)

// Transaction statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Transaction is a buy or sell order recorded against a portfolio.
type Transaction struct {
	ID          string    `json:"id"`
	PortfolioID string    `json:"portfolioId"`
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Shares      float64   `json:"shares"`
	Price       float64   `json:"price"`
	TotalAmount float64   `json:"totalAmount"`
	Fees        float64   `json:"fees"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// TransactionFilter controls paging and filtering of transaction listings.
type TransactionFilter struct {
	PortfolioID string
	Type        string
	Limit       int
	Offset      int
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
	Limit        int           `json:"limit"`
	Offset       int           `json:"offset"`
}
