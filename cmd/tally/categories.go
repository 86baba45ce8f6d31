package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tally-fin/tally/internal/cli"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
		Long:  `List, add, update, and delete the categories transactions are grouped under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			var categories []model.Category
			if kindFlag != "" {
				kind := model.Kind(kindFlag)
				if !kind.Valid() {
					return fmt.Errorf("invalid kind %q, want expense or income", kindFlag)
				}
				categories, err = store.ListCategoriesByKind(ctx, owner, kind)
			} else {
				categories, err = store.ListCategories(ctx, owner)
			}
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'tally categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Kind"),
				cli.TableHeaderStyle.Render("Color"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 36),
				strings.Repeat("-", 20),
				strings.Repeat("-", 8),
				strings.Repeat("-", 8))

			for _, cat := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.Kind, cat.Color)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "only show categories of this kind (expense, income)")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		kindFlag  string
		colorFlag string
		iconFlag  string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind := model.Kind(kindFlag)
			if !kind.Valid() {
				return fmt.Errorf("invalid kind %q, want expense or income", kindFlag)
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

			cat, err := store.CreateCategory(ctx, owner, service.CategoryFields{
				Name:  args[0],
				Kind:  kind,
				Color: colorFlag,
				Icon:  iconFlag,
			})
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (%s)", cat.Name, cat.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "expense", "category kind (expense, income)")
	cmd.Flags().StringVar(&colorFlag, "color", "", "display color as a hex string")
	cmd.Flags().StringVar(&iconFlag, "icon", "", "display icon name")
	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		nameFlag  string
		kindFlag  string
		colorFlag string
		iconFlag  string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category's name, kind, color, or icon",
		Long: `Change a category's fields. Changing the kind keeps existing transaction
assignments in place; the editor simply stops offering the category for the
old kind.`,
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

			existing, err := store.GetCategory(ctx, owner, args[0])
			if err != nil {
				return fmt.Errorf("failed to find category: %w", err)
			}

			// Unset flags keep the current values.
			fields := service.CategoryFields{
				Name:  existing.Name,
				Kind:  existing.Kind,
				Color: existing.Color,
				Icon:  existing.Icon,
			}
			if nameFlag != "" {
				fields.Name = nameFlag
			}
			if kindFlag != "" {
				fields.Kind = model.Kind(kindFlag)
				if !fields.Kind.Valid() {
					return fmt.Errorf("invalid kind %q, want expense or income", kindFlag)
				}
			}
			if colorFlag != "" {
				fields.Color = colorFlag
			}
			if iconFlag != "" {
				fields.Icon = iconFlag
			}

			if err := store.UpdateCategory(ctx, owner, args[0], fields); err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated category %q", fields.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "new category name")
	cmd.Flags().StringVar(&kindFlag, "kind", "", "new kind (expense, income)")
	cmd.Flags().StringVar(&colorFlag, "color", "", "new display color")
	cmd.Flags().StringVar(&iconFlag, "icon", "", "new display icon")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a category",
		Long: `Delete a category. Transactions that referenced it are kept and become
uncategorized; they are never deleted along with it.`,
		Args: cobra.ExactArgs(1),
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

			cat, err := store.GetCategory(ctx, owner, args[0])
			if err != nil {
				return fmt.Errorf("failed to find category: %w", err)
			}

			if !force {
				ok, err := confirmDeletion(ctx,
					fmt.Sprintf("Delete category %q? Its transactions become uncategorized.", cat.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Nothing deleted."))
					return nil
				}
			}

			if err := store.DeleteCategory(ctx, owner, args[0]); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %q", cat.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "delete without asking for confirmation")
	return cmd
}

func confirmDeletion(ctx context.Context, question string) (bool, error) {
	return cli.Confirm(ctx, os.Stdout, os.Stdin, question)
}
