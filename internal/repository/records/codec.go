package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/traders/internal/domain/models"
)

// columns maps canonical header names to their position in a loaded table.
type columns map[string]int

func indexHeader(kind models.Kind, header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range kind.Header() {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s table is missing column %q", kind, name)
		}
	}
	return cols, nil
}

func (c columns) get(row []string, name string) string {
	i := c[name]
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func (c columns) date(row []string, name string) (time.Time, error) {
	value := strings.TrimSpace(c.get(row, name))
	if len(value) > len(models.DateLayout) {
		value = value[:len(models.DateLayout)]
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("column %q: %w", name, err)
	}
	return t, nil
}

func (c columns) decimal(row []string, name string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(c.get(row, name)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %q: %w", name, err)
	}
	return d, nil
}

func (c columns) int(row []string, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(c.get(row, name)))
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return n, nil
}

func encodePurchase(r models.PurchaseRecord) []string {
	return []string{
		r.Date.Format(models.DateLayout),
		r.Item,
		r.Company,
		r.Model,
		r.Dealer,
		r.City,
		r.UnitPrice.String(),
		strconv.Itoa(r.UnitsPurchased),
	}
}

func decodePurchase(c columns, row []string) (models.PurchaseRecord, error) {
	var (
		r   models.PurchaseRecord
		err error
	)
	if r.Date, err = c.date(row, "Date"); err != nil {
		return r, err
	}
	r.Item = c.get(row, "Item")
	r.Company = c.get(row, "Company")
	r.Model = c.get(row, "Model")
	r.Dealer = c.get(row, "Dealer")
	r.City = c.get(row, "City")
	if r.UnitPrice, err = c.decimal(row, "Price Per Unit"); err != nil {
		return r, err
	}
	if r.UnitsPurchased, err = c.int(row, "Units Purchased"); err != nil {
		return r, err
	}
	return r, nil
}

func encodeSale(r models.SaleRecord) []string {
	return []string{
		r.Date.Format(models.DateLayout),
		r.SaleDealer,
		r.ItemSold,
		r.Company,
		r.Model,
		strconv.Itoa(r.UnitsSold),
		r.SalePricePerUnit.String(),
		r.TotalBill.String(),
		r.Profit.String(),
	}
}

func decodeSale(c columns, row []string) (models.SaleRecord, error) {
	var (
		r   models.SaleRecord
		err error
	)
	if r.Date, err = c.date(row, "Date"); err != nil {
		return r, err
	}
	r.SaleDealer = c.get(row, "Sale Dealer")
	r.ItemSold = c.get(row, "Item Sold")
	r.Company = c.get(row, "Company")
	r.Model = c.get(row, "Model")
	if r.UnitsSold, err = c.int(row, "Units Sold"); err != nil {
		return r, err
	}
	if r.SalePricePerUnit, err = c.decimal(row, "Sale Price Per Unit"); err != nil {
		return r, err
	}
	if r.TotalBill, err = c.decimal(row, "Total Bill"); err != nil {
		return r, err
	}
	if r.Profit, err = c.decimal(row, "Profit"); err != nil {
		return r, err
	}
	return r, nil
}

func encodeModelHistory(e models.ModelHistoryEntry) []string {
	return []string{e.Item, e.Company, e.Model}
}

func decodeModelHistory(c columns, row []string) (models.ModelHistoryEntry, error) {
	return models.ModelHistoryEntry{
		Item:    c.get(row, "Item"),
		Company: c.get(row, "Company"),
		Model:   c.get(row, "Model"),
	}, nil
}
