package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/halloway/centavo/internal/cli"
	"github.com/halloway/centavo/internal/model"
	"github.com/halloway/centavo/internal/report"
	"github.com/halloway/centavo/internal/service"
)

func reportCmd() *cobra.Command {
	var (
		filterFlags expenseFilterFlags
		groupBy     string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate expenses into bucketed totals",
		Long: `Aggregate the filtered expense log into per-bucket totals, with spend
and income reported as separate columns. Buckets are ordered oldest
first; buckets with no matching expenses are omitted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			profile, err := currentProfile(ctx, store)
			if err != nil {
				return err
			}

			filters, err := filterFlags.build()
			if err != nil {
				return err
			}

			key := model.GroupBy(strings.ToUpper(groupBy))
			series, err := report.New(store).SpendAndIncome(ctx, profile.ID, key, filters)
			if err != nil {
				return fmt.Errorf("failed to build report: %w", err)
			}

			if len(series.Spend) == 0 && len(series.Income) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses match."))
				return nil
			}

			rows := mergeSeries(series)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Bucket"),
				cli.HeaderStyle.Render("Spend"),
				cli.HeaderStyle.Render("Income"))
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					row.bucket, row.spend.StringFixed(2), row.income.StringFixed(2))
			}
			return w.Flush()
		},
	}

	filterFlags.register(cmd)
	cmd.Flags().StringVar(&groupBy, "group-by", "month", "bucket key (day, week, month, year, category, account, card)")

	return cmd
}

type reportRow struct {
	bucket string
	spend  decimal.Decimal
	income decimal.Decimal
}

// mergeSeries joins the two polarity series on bucket label, preserving the
// bucket order of whichever series mentions a label first.
func mergeSeries(series *report.Series) []reportRow {
	index := make(map[string]int, len(series.Spend)+len(series.Income))
	rows := make([]reportRow, 0, len(series.Spend)+len(series.Income))

	add := func(points []service.ChartPoint, spend bool) {
		for _, p := range points {
			i, ok := index[p.Bucket]
			if !ok {
				i = len(rows)
				index[p.Bucket] = i
				rows = append(rows, reportRow{bucket: p.Bucket})
			}
			if spend {
				rows[i].spend = rows[i].spend.Add(p.Total)
			} else {
				rows[i].income = rows[i].income.Add(p.Total)
			}
		}
	}

	add(series.Spend, true)
	add(series.Income, false)
	return rows
}
