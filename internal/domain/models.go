package domain

import (
	"time"

	"github.com/google/uuid"
)

// LineItem is a cart entry referencing a product code, quantity and unit price.
// Quantity is never persisted at zero or below; a decrement to zero removes
// the line.
type LineItem struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// Cart is the ordered-by-insertion set of line items for one session.
// One session owns its cart exclusively; there are no concurrent writers.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []LineItem `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Product is a sellable item as listed by the ERP. Field names follow the
// ERPNext Item DocType so the list endpoint can decode responses directly.
type Product struct {
	Code        string  `json:"item_code"`
	Name        string  `json:"item_name"`
	Rate        float64 `json:"standard_rate"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
	ItemGroup   string  `json:"item_group,omitempty"`
}

// OrderRequest is the Sales Order document sent to the ERP. Built once per
// checkout attempt from a cart snapshot and immutable once sent.
type OrderRequest struct {
	Customer         string      `json:"customer"`
	TransactionDate  string      `json:"transaction_date"`
	Currency         string      `json:"currency,omitempty"`
	SellingPriceList string      `json:"selling_price_list,omitempty"`
	Items            []OrderLine `json:"items"`
}

// OrderLine is one Sales Order item row. Warehouse is left empty by the
// builder and injected by the ERP client from configuration.
type OrderLine struct {
	ItemCode  string  `json:"item_code"`
	Qty       int     `json:"qty"`
	Rate      float64 `json:"rate"`
	Warehouse string  `json:"warehouse,omitempty"`
}

// OrderResult is the outcome of one checkout attempt. It is transient: shown
// to the user and optionally mirrored as an OrderRecord.
type OrderResult struct {
	Success     bool   `json:"success"`
	OrderName   string `json:"order_name,omitempty"`
	Category    string `json:"category,omitempty"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// OrderRecord is the persisted confirmation of a checkout attempt, keyed by a
// generated id. Best-effort: recording failures never fail a checkout.
type OrderRecord struct {
	ID        uuid.UUID    `json:"id"`
	SessionID string       `json:"session_id"`
	Customer  string       `json:"customer"`
	Request   OrderRequest `json:"request"`
	Success   bool         `json:"success"`
	OrderName string       `json:"order_name,omitempty"`
	Category  string       `json:"category,omitempty"`
	Detail    string       `json:"detail,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
