package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the persisted calendar date format.
const DateLayout = "2006-01-02"

// PurchaseRecord captures an inbound stock acquisition.
type PurchaseRecord struct {
	Date           time.Time       `json:"date"`
	Item           string          `json:"item"`
	Company        string          `json:"company"`
	Model          string          `json:"model"`
	Dealer         string          `json:"dealer"`
	City           string          `json:"city"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	UnitsPurchased int             `json:"units_purchased"`
}

// SaleRecord captures an outbound sale with its profit against the matched purchase.
// TotalBill and Profit are computed once when the sale is recorded.
type SaleRecord struct {
	Date             time.Time       `json:"date"`
	SaleDealer       string          `json:"sale_dealer"`
	ItemSold         string          `json:"item_sold"`
	Company          string          `json:"company"`
	Model            string          `json:"model"`
	UnitsSold        int             `json:"units_sold"`
	SalePricePerUnit decimal.Decimal `json:"sale_price_per_unit"`
	TotalBill        decimal.Decimal `json:"total_bill"`
	Profit           decimal.Decimal `json:"profit"`
}

// ModelHistoryEntry is one line of the model suggestion log.
type ModelHistoryEntry struct {
	Item    string `json:"item"`
	Company string `json:"company"`
	Model   string `json:"model"`
}

// CalendarDate truncates t to its calendar day in t's location and returns
// that day at midnight UTC, so dates compare and serialize independently of zone.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
