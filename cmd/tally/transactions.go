package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-fin/tally/internal/cli"
	"github.com/tally-fin/tally/internal/ledger"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

const dateLayout = "2006-01-02"

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
		Long:  `List, add, edit, and delete income and expense transactions.`,
	}

	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(editTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func listTxCmd() *cobra.Command {
	var (
		typeFlag  string
		monthFlag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions grouped by day",
		Long:  `Show transactions newest first, grouped by calendar date, with totals for the selection.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			typeFilter := ledger.FilterAll
			if typeFlag != "" {
				typeFilter = ledger.TypeFilter(typeFlag)
				if !typeFilter.Valid() {
					return fmt.Errorf("invalid type %q, want all, expense, or income", typeFlag)
				}
			}

			var period model.Month
			if monthFlag != "" {
				var err error
				period, err = model.ParseMonth(monthFlag)
				if err != nil {
					return fmt.Errorf("invalid month %q, want YYYY-MM: %w", monthFlag, err)
				}
			}

			owner, err := resolveOwner()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			all, err := store.ListTransactions(ctx, owner)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			view := ledger.DeriveView(all, typeFilter, period)
			if len(view) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions match."))
				return nil
			}

			printGroups(ledger.GroupByDate(view))
			printTotals(ledger.ComputeTotals(view))
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", "", "filter by kind (expense, income)")
	cmd.Flags().StringVar(&monthFlag, "month", "", "filter by month, formatted YYYY-MM")
	return cmd
}

func printGroups(groups []ledger.DayGroup) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	for _, group := range groups {
		fmt.Fprintf(w, "%s\n", cli.BoldStyle.Render(group.Date.Format("Mon, 02 Jan 2006")))
		for _, txn := range group.Transactions {
			category := txn.CategoryName
			if category == "" {
				category = "uncategorized"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
				txn.ID,
				txn.Description,
				cli.SubtleStyle.Render(category),
				cli.FormatAmount(txn.Amount, txn.Kind))
		}
	}
}

func printTotals(totals ledger.Totals) {
	fmt.Printf("\nincome %s  expenses %s  balance %s\n",
		cli.IncomeStyle.Render(totals.Income.String()),
		cli.ExpenseStyle.Render(totals.Expenses.String()),
		cli.FormatBalance(totals.Balance))
}

func addTxCmd() *cobra.Command {
	var (
		dateFlag     string
		kindFlag     string
		amountFlag   string
		categoryFlag string
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fields, err := parseTxFlags(dateFlag, kindFlag, amountFlag, args[0])
			if err != nil {
				return err
			}

			owner, err := resolveOwner()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if categoryFlag != "" {
				id, err := findCategory(ctx, store, owner, fields.Kind, categoryFlag)
				if err != nil {
					return err
				}
				fields.CategoryID = &id
			}

			txn, err := store.CreateTransaction(ctx, owner, fields)
			if err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %q %s (%s)",
				txn.Description, cli.FormatAmount(txn.Amount, txn.Kind), txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "transaction date, formatted YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&kindFlag, "kind", "expense", "transaction kind (expense, income)")
	cmd.Flags().StringVar(&amountFlag, "amount", "", "positive amount, like 12.50")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "category name or id")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func editTxCmd() *cobra.Command {
	var (
		dateFlag     string
		descFlag     string
		kindFlag     string
		amountFlag   string
		categoryFlag string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Long:  `Change any of a transaction's fields. Unset flags keep the current values.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			owner, err := resolveOwner()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			existing, err := store.GetTransaction(ctx, owner, args[0])
			if err != nil {
				return fmt.Errorf("failed to find transaction: %w", err)
			}

			fields := service.TransactionFields{
				Date:        existing.Date,
				Description: existing.Description,
				Kind:        existing.Kind,
				Amount:      existing.Amount,
				CategoryID:  existing.CategoryID,
			}
			if dateFlag != "" {
				fields.Date, err = time.Parse(dateLayout, dateFlag)
				if err != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD", dateFlag)
				}
			}
			if descFlag != "" {
				fields.Description = descFlag
			}
			kindChanged := false
			if kindFlag != "" {
				fields.Kind = model.Kind(kindFlag)
				if !fields.Kind.Valid() {
					return fmt.Errorf("invalid kind %q, want expense or income", kindFlag)
				}
				kindChanged = fields.Kind != existing.Kind
			}
			if amountFlag != "" {
				fields.Amount, err = model.ParseAmount(amountFlag)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amountFlag, err)
				}
			}
			if categoryFlag != "" {
				id, err := findCategory(ctx, store, owner, fields.Kind, categoryFlag)
				if err != nil {
					return err
				}
				fields.CategoryID = &id
			} else if kindChanged {
				fields.CategoryID, err = reconcileCategory(ctx, store, owner, fields.Kind, fields.CategoryID)
				if err != nil {
					return err
				}
			}

			if err := store.UpdateTransaction(ctx, owner, args[0], fields); err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %q", fields.Description)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "new date, formatted YYYY-MM-DD")
	cmd.Flags().StringVar(&descFlag, "description", "", "new description")
	cmd.Flags().StringVar(&kindFlag, "kind", "", "new kind (expense, income)")
	cmd.Flags().StringVar(&amountFlag, "amount", "", "new amount, like 12.50")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "new category name or id")
	return cmd
}

func deleteTxCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			owner, err := resolveOwner()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := store.GetTransaction(ctx, owner, args[0])
			if err != nil {
				return fmt.Errorf("failed to find transaction: %w", err)
			}

			if !force {
				ok, err := confirmDeletion(ctx,
					fmt.Sprintf("Delete %q from %s? There is no undo.",
						txn.Description, txn.Date.Format(dateLayout)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Nothing deleted."))
					return nil
				}
			}

			if err := store.DeleteTransaction(ctx, owner, args[0]); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Transaction deleted."))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "delete without asking for confirmation")
	return cmd
}

func parseTxFlags(dateFlag, kindFlag, amountFlag, description string) (service.TransactionFields, error) {
	kind := model.Kind(kindFlag)
	if !kind.Valid() {
		return service.TransactionFields{}, fmt.Errorf("invalid kind %q, want expense or income", kindFlag)
	}

	date := time.Now()
	if dateFlag != "" {
		var err error
		date, err = time.Parse(dateLayout, dateFlag)
		if err != nil {
			return service.TransactionFields{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", dateFlag)
		}
	}

	amount, err := model.ParseAmount(amountFlag)
	if err != nil {
		return service.TransactionFields{}, fmt.Errorf("invalid amount %q: %w", amountFlag, err)
	}

	return service.TransactionFields{
		Date:        date,
		Description: description,
		Kind:        kind,
		Amount:      amount,
	}, nil
}

// findCategory resolves a --category flag against the categories eligible
// for the transaction's kind, matching by id first and then by name.
func findCategory(ctx context.Context, store service.Store, owner string, kind model.Kind, ref string) (string, error) {
	categories, err := store.ListCategoriesByKind(ctx, owner, kind)
	if err != nil {
		return "", fmt.Errorf("failed to list categories: %w", err)
	}

	for _, cat := range categories {
		if cat.ID == ref {
			return cat.ID, nil
		}
	}
	for _, cat := range categories {
		if strings.EqualFold(cat.Name, ref) {
			return cat.ID, nil
		}
	}
	return "", fmt.Errorf("no %s category named %q; run 'tally categories list'", kind, ref)
}

// reconcileCategory re-checks a category reference after a kind change.
// A reference still eligible for the new kind is kept; otherwise the
// first eligible category takes its place, or the reference clears when
// none exist.
func reconcileCategory(ctx context.Context, store service.Store, owner string, kind model.Kind, current *string) (*string, error) {
	eligible, err := store.ListCategoriesByKind(ctx, owner, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return ledger.ReconcileSelection(current, eligible), nil
}
