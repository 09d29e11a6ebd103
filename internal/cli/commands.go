package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/mamadbah2/traders/internal/app"
	"github.com/mamadbah2/traders/internal/domain/models"
)

// --- Purchase Command ---

type purchaseCmd struct {
	env  *Env
	form models.PurchaseForm
}

func (*purchaseCmd) Name() string     { return "purchase" }
func (*purchaseCmd) Synopsis() string { return "record a stock purchase" }
func (*purchaseCmd) Usage() string {
	return `purchase -item <item> -company <company> -model <model> -dealer <dealer> -city <city> -price <price> -units <units>

  Records a purchase dated today and remembers the model for later suggestions.
`
}

func (c *purchaseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.form.Item, "item", "", "Item category, e.g. Laptop")
	f.StringVar(&c.form.Company, "company", "", "Manufacturer")
	f.StringVar(&c.form.Model, "model", "", "Model designation")
	f.StringVar(&c.form.Dealer, "dealer", "", "Dealer the stock was bought from")
	f.StringVar(&c.form.City, "city", "", "Dealer city")
	f.StringVar(&c.form.Price, "price", "", "Price per unit")
	f.StringVar(&c.form.Units, "units", "", "Units purchased")
}

func (c *purchaseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		record, err := a.Transactions.RecordPurchase(ctx, c.form)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.env.Out, "Purchase recorded: %d x %s %s %s at %s\n",
			record.UnitsPurchased, record.Item, record.Company, record.Model, record.UnitPrice)
		return nil
	})
}

// --- Sale Command ---

type saleCmd struct {
	env  *Env
	form models.SaleForm
}

func (*saleCmd) Name() string     { return "sale" }
func (*saleCmd) Synopsis() string { return "record a sale against a prior purchase" }
func (*saleCmd) Usage() string {
	return `sale -dealer <dealer> -item <item> -company <company> -model <model> -qty <quantity> -price <price>

  Records a sale dated today. Profit is computed from the first purchase
  with the same item, company and model (case-insensitive).
`
}

func (c *saleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.form.SaleDealer, "dealer", "", "Dealer the stock was sold to")
	f.StringVar(&c.form.ItemSold, "item", "", "Item category")
	f.StringVar(&c.form.CompanySold, "company", "", "Manufacturer")
	f.StringVar(&c.form.ModelSold, "model", "", "Model designation")
	f.StringVar(&c.form.QuantitySold, "qty", "", "Units sold")
	f.StringVar(&c.form.SalePrice, "price", "", "Sale price per unit")
}

func (c *saleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		record, err := a.Transactions.RecordSale(ctx, c.form)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.env.Out, "Sale recorded: total bill %s, profit %s\n", record.TotalBill, record.Profit)
		return nil
	})
}

// --- List Command ---

type listCmd struct {
	env  *Env
	kind string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "print the rows of a table with their indices" }
func (*listCmd) Usage() string {
	return `list [-kind purchases|sales|model_history]

  Prints every row of the table. The first column is the row index used by delete.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", string(models.KindPurchase), "Table to list")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := models.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(c.env.Err, "Error: %v\n", err)
		f.Usage()
		return subcommands.ExitUsageError
	}

	return c.env.run(ctx, func(a *app.App) error {
		w := tabwriter.NewWriter(c.env.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\t"+strings.Join(kind.Header(), "\t"))

		switch kind {
		case models.KindPurchase:
			rows, err := a.Transactions.Purchases(ctx)
			if err != nil {
				return err
			}
			for i, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n", i,
					r.Date.Format(models.DateLayout), r.Item, r.Company, r.Model, r.Dealer, r.City, r.UnitPrice, r.UnitsPurchased)
			}
		case models.KindSale:
			rows, err := a.Transactions.Sales(ctx)
			if err != nil {
				return err
			}
			for i, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n", i,
					r.Date.Format(models.DateLayout), r.SaleDealer, r.ItemSold, r.Company, r.Model, r.UnitsSold, r.SalePricePerUnit, r.TotalBill, r.Profit)
			}
		case models.KindModelHistory:
			rows, err := a.Store.ModelHistory(ctx)
			if err != nil {
				return err
			}
			for i, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, r.Item, r.Company, r.Model)
			}
		}
		return w.Flush()
	})
}

// --- Delete Command ---

type deleteCmd struct {
	env  *Env
	kind string
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete rows by index" }
func (*deleteCmd) Usage() string {
	return `delete -kind purchases|sales|model_history <index> [<index>...]

  Removes the rows at the given zero-based indices, as printed by list.
  Nothing is removed if any index is out of range.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "Table to delete from")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := models.ParseKind(c.kind)
	if err != nil || f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	indices, err := parseIndices(f.Args())
	if err != nil {
		fmt.Fprintf(c.env.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return c.env.run(ctx, func(a *app.App) error {
		if err := a.Transactions.DeleteRecords(ctx, kind, indices); err != nil {
			return err
		}
		fmt.Fprintf(c.env.Out, "Deleted %d row(s) from %s\n", len(indices), kind)
		return nil
	})
}

// --- Reset Command ---

type resetCmd struct {
	env *Env
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "clear all purchases and sales" }
func (*resetCmd) Usage() string {
	return `reset -yes

  Removes every purchase and sale row, keeping the headers. Model history is kept.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the reset")
}

func (c *resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		if err := a.Transactions.ResetAll(ctx, c.yes); err != nil {
			return err
		}
		fmt.Fprintln(c.env.Out, "All purchase and sale records cleared")
		return nil
	})
}

// --- Summary Command ---

type summaryCmd struct {
	env     *Env
	pdf     string
	publish bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print the monthly sales summary" }
func (*summaryCmd) Usage() string {
	return `summary [-pdf <file>] [-publish]

  Prints units, bill and profit per month. -pdf also writes the report as a
  PDF and -publish sends it to the configured archive and WhatsApp recipient.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pdf, "pdf", "", "Write the report to this PDF file")
	f.BoolVar(&c.publish, "publish", false, "Archive and send the report")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		text, err := a.Reporting.MonthlyText(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.env.Out, text)

		if c.pdf != "" {
			out, err := os.Create(c.pdf)
			if err != nil {
				return err
			}
			if err := a.Reporting.MonthlyPDF(ctx, out); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.env.Out, "PDF written to %s\n", c.pdf)
		}

		if c.publish {
			return a.Reporting.Publish(ctx)
		}
		return nil
	})
}

// --- Models Command ---

type modelsCmd struct {
	env  *Env
	item string
}

func (*modelsCmd) Name() string     { return "models" }
func (*modelsCmd) Synopsis() string { return "list known items or the models seen for one item" }
func (*modelsCmd) Usage() string {
	return `models [-item <item>]

  Without -item, lists every known item. With -item, lists the models
  previously purchased for that item.
`
}

func (c *modelsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.item, "item", "", "Item to list models for")
}

func (c *modelsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		values := a.Transactions.Items()
		if c.item != "" {
			values = a.Transactions.ModelSuggestions(c.item)
		}
		for _, v := range values {
			fmt.Fprintln(c.env.Out, v)
		}
		return nil
	})
}
