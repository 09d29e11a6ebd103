package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/traders/internal/domain/models"
	"github.com/mamadbah2/traders/internal/repository/mongodb"
	"github.com/mamadbah2/traders/pkg/clients/whatsapp"
)

// Summarizer produces the monthly sales summary.
type Summarizer interface {
	MonthlySalesSummary(ctx context.Context) ([]models.MonthlySummary, error)
}

// Service renders and publishes the monthly sales summary.
type Service struct {
	summarizer Summarizer
	archive    mongodb.Repository
	notifier   whatsapp.Notifier
	recipient  string
	currency   string
	logger     *zap.Logger
}

// Option configures optional publishing targets.
type Option func(*Service)

// WithArchive stores every published summary.
func WithArchive(archive mongodb.Repository) Option {
	return func(s *Service) { s.archive = archive }
}

// WithNotifier sends every published summary to recipient.
func WithNotifier(notifier whatsapp.Notifier, recipient string) Option {
	return func(s *Service) {
		s.notifier = notifier
		s.recipient = recipient
	}
}

// NewService wires a new reporting service instance. currency is an ISO 4217 code.
func NewService(summarizer Summarizer, currency string, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{summarizer: summarizer, currency: currency, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Monthly returns the summary rows, oldest month first.
func (s *Service) Monthly(ctx context.Context) ([]models.MonthlySummary, error) {
	summaries, err := s.summarizer.MonthlySalesSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("load monthly summary: %w", err)
	}
	return summaries, nil
}

// MonthlyText renders the summary as one line per month.
func (s *Service) MonthlyText(ctx context.Context) (string, error) {
	summaries, err := s.Monthly(ctx)
	if err != nil {
		return "", err
	}
	return s.formatText(summaries), nil
}

// Publish archives the summary and sends it as a message, each when configured.
// Both targets are attempted; their failures are joined.
func (s *Service) Publish(ctx context.Context) error {
	summaries, err := s.Monthly(ctx)
	if err != nil {
		return err
	}

	var errs []error
	if s.archive != nil {
		if err := s.archive.SaveMonthlySummaries(ctx, summaries); err != nil {
			s.logger.Error("failed to archive monthly summary", zap.Error(err))
			errs = append(errs, err)
		} else {
			s.logger.Info("monthly summary archived", zap.Int("months", len(summaries)))
		}
	}

	if s.notifier != nil {
		sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		lines := s.formatLines(summaries)
		if len(lines) == 0 {
			lines = []string{"No sales recorded yet."}
		}
		delivery, err := s.notifier.SendReport(sendCtx, whatsapp.Report{
			Recipient: s.recipient,
			Title:     reportTitle,
			Lines:     lines,
		})
		if err != nil {
			s.logger.Error("failed to send monthly summary", zap.Error(err))
			errs = append(errs, err)
		} else {
			s.logger.Info("monthly summary sent",
				zap.String("to", s.recipient),
				zap.Strings("message_ids", delivery.MessageIDs))
		}
	}

	return errors.Join(errs...)
}

const reportTitle = "Monthly sales summary"

func (s *Service) formatText(summaries []models.MonthlySummary) string {
	if len(summaries) == 0 {
		return reportTitle + ": no sales recorded yet."
	}
	return reportTitle + "\n" + strings.Join(s.formatLines(summaries), "\n")
}

func (s *Service) formatLines(summaries []models.MonthlySummary) []string {
	lines := make([]string, 0, len(summaries))
	for _, m := range summaries {
		lines = append(lines, fmt.Sprintf("%s: %d units, bill %s, profit %s",
			m.YearMonth, m.TotalUnitsSold, s.formatAmount(m.TotalBill), s.formatAmount(m.TotalProfit)))
	}
	return lines
}

// formatAmount renders d with the currency's symbol, separators and minor digits.
func (s *Service) formatAmount(d decimal.Decimal) string {
	// Unknown codes still yield a currency, with default formatting.
	cur := *money.New(0, s.currency).Currency()
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}
