// Package transactions validates purchase and sale input, reconciles sales
// against recorded purchases and derives the stored sale totals.
package transactions

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/traders/internal/domain/models"
)

// Store is the persistence the processor needs.
type Store interface {
	Purchases(ctx context.Context) ([]models.PurchaseRecord, error)
	Sales(ctx context.Context) ([]models.SaleRecord, error)
	ModelHistory(ctx context.Context) ([]models.ModelHistoryEntry, error)
	AppendPurchase(ctx context.Context, r models.PurchaseRecord) error
	AppendSale(ctx context.Context, r models.SaleRecord) error
	AppendModelHistory(ctx context.Context, e models.ModelHistoryEntry) error
	DeleteByIndices(ctx context.Context, kind models.Kind, indices []int) error
	ResetAll(ctx context.Context, kinds ...models.Kind) error
}

// Service is the transaction processor. Each call runs to completion while
// holding the service lock, so concurrent HTTP requests see one action at a time.
type Service struct {
	mu       sync.Mutex
	store    Store
	index    *ModelIndex
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a processor. A nil index starts empty; a nil location
// stamps dates in the local zone.
func NewService(store Store, index *ModelIndex, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if index == nil {
		index = NewModelIndex(nil)
	}
	if location == nil {
		location = time.Local
	}
	return &Service{
		store:    store,
		index:    index,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// RecordPurchase validates the form, logs the model to the history and
// appends the purchase.
func (s *Service) RecordPurchase(ctx context.Context, form models.PurchaseForm) (models.PurchaseRecord, error) {
	record, err := s.buildPurchaseRecord(form)
	if err != nil {
		return models.PurchaseRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.ModelHistoryEntry{Item: record.Item, Company: record.Company, Model: record.Model}
	if err := s.store.AppendModelHistory(ctx, entry); err != nil {
		return models.PurchaseRecord{}, err
	}
	if err := s.store.AppendPurchase(ctx, record); err != nil {
		return models.PurchaseRecord{}, err
	}
	if s.index.Add(record.Item, record.Model) {
		s.logger.Debug("model added to suggestions", zap.String("item", record.Item), zap.String("model", record.Model))
	}

	s.logger.Info("purchase recorded",
		zap.String("item", record.Item),
		zap.String("company", record.Company),
		zap.String("model", record.Model),
		zap.Int("units", record.UnitsPurchased),
		zap.String("unit_price", record.UnitPrice.String()))
	return record, nil
}

// RecordSale validates the form, matches it to the first purchase with the same
// item, company and model (ignoring case and surrounding spaces), computes the
// bill and profit and appends the sale. Nothing is written when no purchase matches.
func (s *Service) RecordSale(ctx context.Context, form models.SaleForm) (models.SaleRecord, error) {
	input, err := buildSaleInput(form)
	if err != nil {
		return models.SaleRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	purchases, err := s.store.Purchases(ctx)
	if err != nil {
		return models.SaleRecord{}, err
	}

	matched, ok := findPurchase(purchases, input.item, input.company, input.model)
	if !ok {
		s.logger.Warn("sale rejected without matching purchase",
			zap.String("item", input.item),
			zap.String("company", input.company),
			zap.String("model", input.model))
		return models.SaleRecord{}, fmt.Errorf("%w for '%s - %s - %s', please verify that a matching purchase exists",
			models.ErrNoMatchingPurchase, input.item, input.company, input.model)
	}

	units := decimal.NewFromInt(int64(input.quantity))
	record := models.SaleRecord{
		Date:             s.today(),
		SaleDealer:       input.dealer,
		ItemSold:         models.Capitalize(input.item),
		Company:          models.Capitalize(input.company),
		Model:            models.Capitalize(input.model),
		UnitsSold:        input.quantity,
		SalePricePerUnit: input.price,
		TotalBill:        input.price.Mul(units),
		Profit:           input.price.Sub(matched.UnitPrice).Mul(units),
	}

	if err := s.store.AppendSale(ctx, record); err != nil {
		return models.SaleRecord{}, err
	}

	s.logger.Info("sale recorded",
		zap.String("item", record.ItemSold),
		zap.String("dealer", record.SaleDealer),
		zap.Int("units", record.UnitsSold),
		zap.String("total_bill", record.TotalBill.String()),
		zap.String("profit", record.Profit.String()))
	return record, nil
}

// DeleteRecords removes rows by position. The caller obtains user confirmation.
func (s *Service) DeleteRecords(ctx context.Context, kind models.Kind, indices []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteByIndices(ctx, kind, indices); err != nil {
		return err
	}
	if kind == models.KindModelHistory {
		entries, err := s.store.ModelHistory(ctx)
		if err != nil {
			s.logger.Warn("model suggestions not rebuilt after delete", zap.Error(err))
			return fmt.Errorf("rows deleted but model suggestions not reloaded: %w", err)
		}
		s.index = NewModelIndex(entries)
	}
	return nil
}

// ResetAll empties the purchase and sale tables. The model history is kept.
func (s *Service) ResetAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return models.ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ResetAll(ctx, models.KindPurchase, models.KindSale); err != nil {
		return err
	}
	s.logger.Warn("purchase and sale records reset")
	return nil
}

// Purchases lists every recorded purchase.
func (s *Service) Purchases(ctx context.Context) ([]models.PurchaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Purchases(ctx)
}

// Sales lists every recorded sale.
func (s *Service) Sales(ctx context.Context) ([]models.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Sales(ctx)
}

// ModelSuggestions returns the models previously entered for item.
func (s *Service) ModelSuggestions(item string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Models(item)
}

// Items returns the item picker list.
func (s *Service) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Items()
}

// MonthlySalesSummary groups sales by calendar month, oldest first.
func (s *Service) MonthlySalesSummary(ctx context.Context) ([]models.MonthlySummary, error) {
	sales, err := s.Sales(ctx)
	if err != nil {
		return nil, err
	}
	return SummarizeByMonth(sales), nil
}

// SummarizeByMonth sums units, bill and profit per year-month of the sale date.
func SummarizeByMonth(sales []models.SaleRecord) []models.MonthlySummary {
	groups := make(map[string]*models.MonthlySummary)
	for _, sale := range sales {
		key := sale.Date.Format(models.YearMonthLayout)
		g, ok := groups[key]
		if !ok {
			g = &models.MonthlySummary{YearMonth: key, TotalBill: decimal.Zero, TotalProfit: decimal.Zero}
			groups[key] = g
		}
		g.TotalUnitsSold += sale.UnitsSold
		g.TotalBill = g.TotalBill.Add(sale.TotalBill)
		g.TotalProfit = g.TotalProfit.Add(sale.Profit)
	}

	out := make([]models.MonthlySummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YearMonth < out[j].YearMonth })
	return out
}

func (s *Service) today() time.Time {
	return models.CalendarDate(s.now().In(s.location))
}

func (s *Service) buildPurchaseRecord(form models.PurchaseForm) (models.PurchaseRecord, error) {
	fields := []field{
		{"item", form.Item},
		{"company", form.Company},
		{"model", form.Model},
		{"dealer", form.Dealer},
		{"city", form.City},
		{"price", form.Price},
		{"units", form.Units},
	}
	v, err := required(fields)
	if err != nil {
		return models.PurchaseRecord{}, err
	}

	price, err := parseDecimal("price", v["price"])
	if err != nil {
		return models.PurchaseRecord{}, err
	}
	units, err := parseInt("units", v["units"])
	if err != nil {
		return models.PurchaseRecord{}, err
	}

	return models.PurchaseRecord{
		Date:           s.today(),
		Item:           v["item"],
		Company:        v["company"],
		Model:          v["model"],
		Dealer:         v["dealer"],
		City:           v["city"],
		UnitPrice:      price,
		UnitsPurchased: units,
	}, nil
}

// saleInput is a validated sale form with the matching fields normalized.
type saleInput struct {
	dealer   string
	item     string
	company  string
	model    string
	quantity int
	price    decimal.Decimal
}

func buildSaleInput(form models.SaleForm) (saleInput, error) {
	fields := []field{
		{"sale_dealer", form.SaleDealer},
		{"item_sold", form.ItemSold},
		{"company_sold", form.CompanySold},
		{"model_sold", form.ModelSold},
		{"quantity_sold", form.QuantitySold},
		{"sale_price", form.SalePrice},
	}
	v, err := required(fields)
	if err != nil {
		return saleInput{}, err
	}

	quantity, err := parseInt("quantity_sold", v["quantity_sold"])
	if err != nil {
		return saleInput{}, err
	}
	price, err := parseDecimal("sale_price", v["sale_price"])
	if err != nil {
		return saleInput{}, err
	}

	return saleInput{
		dealer:   v["sale_dealer"],
		item:     models.Normalize(v["item_sold"]),
		company:  models.Normalize(v["company_sold"]),
		model:    models.Normalize(v["model_sold"]),
		quantity: quantity,
		price:    price,
	}, nil
}

func findPurchase(purchases []models.PurchaseRecord, item, company, model string) (models.PurchaseRecord, bool) {
	for _, p := range purchases {
		if models.Normalize(p.Item) == item &&
			models.Normalize(p.Company) == company &&
			models.Normalize(p.Model) == model {
			return p, true
		}
	}
	return models.PurchaseRecord{}, false
}

type field struct {
	name  string
	value string
}

// required trims every field and fails listing the empty ones in form order.
func required(fields []field) (map[string]string, error) {
	values := make(map[string]string, len(fields))
	var missing []string
	for _, f := range fields {
		v := strings.TrimSpace(f.value)
		if v == "" {
			missing = append(missing, f.name)
		}
		values[f.name] = v
	}
	if len(missing) > 0 {
		return nil, &models.MissingFieldError{Fields: missing}
	}
	return values, nil
}

// maxExponent bounds the scale of an amount; Decimal.String expands the
// exponent in full when the value is persisted.
const maxExponent = 28

// Negative values are accepted; the exponent must stay within maxExponent.
func parseDecimal(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &models.NumberError{Field: name, Value: value, Want: "a number"}
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, &models.NumberError{Field: name, Value: value, Want: "a number within 28 digits of scale"}
	}
	return d, nil
}

func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &models.NumberError{Field: name, Value: value, Want: "an integer"}
	}
	return n, nil
}
