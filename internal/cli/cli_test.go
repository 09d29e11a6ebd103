package cli_test

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/traders/internal/app"
	"github.com/mamadbah2/traders/internal/cli"
	"github.com/mamadbah2/traders/internal/config"
)

type harness struct {
	cfg *config.Config
	out bytes.Buffer
	err bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{cfg: &config.Config{
		Storage: config.StorageConfig{
			Backend:          config.BackendCSV,
			PurchaseFile:     filepath.Join(dir, "purchase_data.csv"),
			SaleFile:         filepath.Join(dir, "sale_data.csv"),
			ModelHistoryFile: filepath.Join(dir, "model_history.csv"),
		},
		Reporting: config.ReportingConfig{Timezone: "UTC", Currency: "PKR"},
	}}
}

func (h *harness) run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	h.out.Reset()
	h.err.Reset()

	env := &cli.Env{
		Out: &h.out,
		Err: &h.err,
		Open: func(ctx context.Context) (*app.App, error) {
			return app.New(ctx, h.cfg, nil)
		},
	}

	top := flag.NewFlagSet("traderctl", flag.ContinueOnError)
	commander := subcommands.NewCommander(top, "traderctl")
	commander.Output = &h.out
	commander.Error = &h.err
	for _, c := range cli.Commands(env) {
		commander.Register(c, "")
	}
	require.NoError(t, top.Parse(args))
	return commander.Execute(context.Background())
}

func TestPurchaseSaleAndSummary(t *testing.T) {
	h := newHarness(t)

	status := h.run(t, "purchase", "-item", "Laptop", "-company", "HP", "-model", "840 G9",
		"-dealer", "Ahmed", "-city", "Lahore", "-price", "100", "-units", "10")
	require.Equal(t, subcommands.ExitSuccess, status, h.err.String())
	assert.Contains(t, h.out.String(), "Purchase recorded: 10 x Laptop HP 840 G9 at 100")

	status = h.run(t, "sale", "-dealer", "Bilal", "-item", "laptop", "-company", "hp",
		"-model", "840 g9", "-qty", "5", "-price", "150")
	require.Equal(t, subcommands.ExitSuccess, status, h.err.String())
	assert.Contains(t, h.out.String(), "total bill 750, profit 250")

	status = h.run(t, "summary")
	require.Equal(t, subcommands.ExitSuccess, status, h.err.String())
	assert.Contains(t, h.out.String(), "Monthly sales summary")
	assert.Contains(t, h.out.String(), "5 units")

	status = h.run(t, "models", "-item", "LAPTOP")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "840 G9\n", h.out.String())
}

func TestSaleWithoutPurchaseFails(t *testing.T) {
	h := newHarness(t)

	status := h.run(t, "sale", "-dealer", "Bilal", "-item", "Juicer", "-company", "Anex",
		"-model", "AG-1", "-qty", "1", "-price", "10")
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, h.err.String(), "no matching purchase record")
}

func TestListAndDelete(t *testing.T) {
	h := newHarness(t)
	for _, model := range []string{"A", "B", "C"} {
		status := h.run(t, "purchase", "-item", "Fan", "-company", "Gfc", "-model", model,
			"-dealer", "D", "-city", "Multan", "-price", "10", "-units", "1")
		require.Equal(t, subcommands.ExitSuccess, status, h.err.String())
	}

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "delete", "-kind", "purchase", "1", "1"), h.err.String())
	assert.Equal(t, "Deleted 1 row(s) from purchases\n", h.out.String())

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "list", "-kind", "purchases"))
	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], " A ")
	assert.Contains(t, lines[2], " C ")

	assert.Equal(t, subcommands.ExitFailure, h.run(t, "delete", "-kind", "purchases", "7"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "delete", "-kind", "purchases", "x"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "delete", "-kind", "stock", "0"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "list", "-kind", "stock"))
}

func TestResetRequiresYes(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, "purchase", "-item", "Fan", "-company", "Gfc", "-model", "X",
		"-dealer", "D", "-city", "Multan", "-price", "10", "-units", "1"))

	assert.Equal(t, subcommands.ExitFailure, h.run(t, "reset"))
	assert.Contains(t, h.err.String(), "confirmation")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "reset", "-yes"))
	raw, err := os.ReadFile(h.cfg.Storage.PurchaseFile)
	require.NoError(t, err)
	assert.Equal(t, "Date,Item,Company,Model,Dealer,City,Price Per Unit,Units Purchased\n", string(raw))
}

func TestSummaryWritesPDF(t *testing.T) {
	h := newHarness(t)
	target := filepath.Join(t.TempDir(), "report.pdf")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "summary", "-pdf", target), h.err.String())
	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}
