package models

import "github.com/shopspring/decimal"

// YearMonthLayout formats the calendar month of a summary row.
const YearMonthLayout = "2006-01"

// MonthlySummary aggregates the sales of one calendar month.
type MonthlySummary struct {
	YearMonth      string          `json:"year_month"`
	TotalUnitsSold int             `json:"total_units_sold"`
	TotalBill      decimal.Decimal `json:"total_bill"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
}
