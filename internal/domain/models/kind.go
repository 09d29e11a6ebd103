package models

import (
	"fmt"
	"strings"
)

// Kind identifies one of the persisted tables.
type Kind string

const (
	KindPurchase     Kind = "purchases"
	KindSale         Kind = "sales"
	KindModelHistory Kind = "model_history"
)

// Kinds lists every table in initialization order.
var Kinds = []Kind{KindPurchase, KindSale, KindModelHistory}

// Canonical column headers. Column order is the on-disk schema.
var (
	PurchaseHeader     = []string{"Date", "Item", "Company", "Model", "Dealer", "City", "Price Per Unit", "Units Purchased"}
	SaleHeader         = []string{"Date", "Sale Dealer", "Item Sold", "Company", "Model", "Units Sold", "Sale Price Per Unit", "Total Bill", "Profit"}
	ModelHistoryHeader = []string{"Item", "Company", "Model"}
)

// Header returns the canonical header for the kind.
func (k Kind) Header() []string {
	switch k {
	case KindPurchase:
		return PurchaseHeader
	case KindSale:
		return SaleHeader
	case KindModelHistory:
		return ModelHistoryHeader
	default:
		return nil
	}
}

// ParseKind maps user input such as "purchase" or "Sales" to a Kind.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "purchase", "purchases":
		return KindPurchase, nil
	case "sale", "sales":
		return KindSale, nil
	case "model_history", "models", "history":
		return KindModelHistory, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
	}
}
