package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seals-go/internal/render"
	"seals-go/internal/seals"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List seals, optionally filtered by a search query",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		query, _ := cmd.Flags().GetString("query")

		a, err := newApp("List")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		active, _ := a.Document().Active()
		fmt.Println(render.SealList(a.Search(query), active.ID, a.CurrentYear()))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [SEAL]",
	Short: "Show a seal (default: the active seal)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("Show")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		s, err := a.ResolveSeal(argOr(args, ""))
		if err != nil {
			return err
		}
		active, _ := a.Document().Active()
		fmt.Println(render.SealCard(s, a.CurrentYear(), s.ID == active.ID))
		return nil
	},
}

var useCmd = &cobra.Command{
	Use:   "use SEAL",
	Short: "Make a seal the active seal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("SetActive")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		changed, err := a.SetActive(args[0])
		if err != nil {
			return err
		}
		s, _ := a.Document().Active()
		report(changed, fmt.Sprintf("Active seal: %s", s.Title))
		return nil
	},
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a seal with the starter triumphs",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		title, _ := cmd.Flags().GetString("title")
		theme, _ := cmd.Flags().GetString("theme")
		flavor, _ := cmd.Flags().GetString("flavor")
		palette, _ := cmd.Flags().GetString("palette")

		a, err := newApp("CreateSeal")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		changed, err := a.CreateSeal(title, theme, flavor, palette)
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("a seal needs both a title and a theme")
		}
		s, _ := a.Document().Active()
		fmt.Println(render.SealCard(s, a.CurrentYear(), true))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete SEAL",
	Short: "Delete a seal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("DeleteSeal")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		s, err := a.ResolveSeal(args[0])
		if err != nil {
			return err
		}
		changed, err := a.DeleteSeal(s.ID)
		if err != nil {
			return err
		}
		report(changed, fmt.Sprintf("Deleted %s", s.Title))
		return nil
	},
}

// triumph command
var triumphCmd = &cobra.Command{
	Use:   "triumph",
	Short: "Manage a seal's triumphs",
}

var triumphAddCmd = &cobra.Command{
	Use:   "add TEXT",
	Short: "Add a triumph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sealRef, _ := cmd.Flags().GetString("seal")
		tierFlag, _ := cmd.Flags().GetString("tier")
		tier, err := seals.ParseTier(tierFlag)
		if err != nil {
			return err
		}

		a, err := newApp("AddTriumph")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		changed, err := a.AddTriumph(sealRef, args[0], tier)
		if err != nil {
			return err
		}
		report(changed, fmt.Sprintf("Added %s triumph", tier))
		return nil
	},
}

var triumphToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Mark a triumph done or not done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sealRef, _ := cmd.Flags().GetString("seal")

		a, err := newApp("ToggleTriumph")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		before, err := a.ResolveSeal(sealRef)
		if err != nil {
			return err
		}
		changed, err := a.ToggleTriumph(before.ID, args[0])
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("no triumph %s on %s", args[0], before.Title)
		}

		after, _ := a.ResolveSeal(before.ID)
		c := seals.Complete(after)
		fmt.Printf("%s: %d/%d triumphs done\n", after.Title, c.Done, c.Total)
		if !before.Earned() && after.Earned() {
			fmt.Printf("Seal earned on %s!\n", *after.EarnedOn)
		}
		return nil
	},
}

var triumphRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a triumph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sealRef, _ := cmd.Flags().GetString("seal")

		a, err := newApp("RemoveTriumph")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		changed, err := a.RemoveTriumph(sealRef, args[0])
		if err != nil {
			return err
		}
		report(changed, "Removed triumph")
		return nil
	},
}

var triumphResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Mark every triumph of a seal not done",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sealRef, _ := cmd.Flags().GetString("seal")

		a, err := newApp("ResetTriumphs")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		changed, err := a.ResetTriumphs(sealRef)
		if err != nil {
			return err
		}
		report(changed, "Triumphs reset")
		return nil
	},
}

// book command
var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage a seal's books",
}

var bookAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sealRef, _ := cmd.Flags().GetString("seal")
		author, _ := cmd.Flags().GetString("author")
		pages, _ := cmd.Flags().GetString("pages")
		notes, _ := cmd.Flags().GetString("notes")

		a, err := newApp("AddBook")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		changed, err := a.AddBook(sealRef, seals.BookPayload{
			Title:  args[0],
			Author: author,
			Pages:  seals.ParsePages(pages),
			Notes:  notes,
		})
		if err != nil {
			return err
		}
		report(changed, "Added book")
		return nil
	},
}

var bookToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Mark a book finished or unfinished",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sealRef, _ := cmd.Flags().GetString("seal")

		a, err := newApp("ToggleBookFinished")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		changed, err := a.ToggleBookFinished(sealRef, args[0])
		if err != nil {
			return err
		}
		report(changed, "Book updated")
		return nil
	},
}

var bookRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sealRef, _ := cmd.Flags().GetString("seal")

		a, err := newApp("RemoveBook")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		changed, err := a.RemoveBook(sealRef, args[0])
		if err != nil {
			return err
		}
		report(changed, "Removed book")
		return nil
	},
}

var gildCmd = &cobra.Command{
	Use:   "gild",
	Short: "Gild a completed seal for the current year",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sealRef, _ := cmd.Flags().GetString("seal")
		note, _ := cmd.Flags().GetString("note")

		a, err := newApp("Gild")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		changed, err := a.Gild(sealRef, note)
		if err != nil {
			return err
		}
		s, _ := a.ResolveSeal(sealRef)
		year := a.CurrentYear()
		report(changed, fmt.Sprintf("%s gilded %d× in %s", s.Title, s.GildCount(year), year))
		return nil
	},
}

func argOr(args []string, def string) string {
	if len(args) > 0 {
		return args[0]
	}
	return def
}

func init() {
	listCmd.Flags().StringP("query", "q", "", "Filter by title, theme or flavor")

	newCmd.Flags().String("title", "", "Seal title (required)")
	newCmd.Flags().String("theme", "", "Seal theme (required)")
	newCmd.Flags().String("flavor", "", "Flavor text")
	newCmd.Flags().String("palette", seals.DefaultPalette, "Palette: ember, aether, verdant, void or iron")

	for _, c := range []*cobra.Command{
		triumphAddCmd, triumphToggleCmd, triumphRemoveCmd, triumphResetCmd,
		bookAddCmd, bookToggleCmd, bookRemoveCmd, gildCmd,
	} {
		c.Flags().StringP("seal", "s", "", "Seal id or title (default: the active seal)")
	}

	triumphAddCmd.Flags().StringP("tier", "t", string(seals.Bronze), "Tier: Bronze, Silver or Gold")
	bookAddCmd.Flags().String("author", "", "Author")
	bookAddCmd.Flags().String("pages", "", "Page count")
	bookAddCmd.Flags().String("notes", "", "Notes")
	gildCmd.Flags().String("note", "", "Note stored with the gild")

	triumphCmd.AddCommand(triumphAddCmd)
	triumphCmd.AddCommand(triumphToggleCmd)
	triumphCmd.AddCommand(triumphRemoveCmd)
	triumphCmd.AddCommand(triumphResetCmd)

	bookCmd.AddCommand(bookAddCmd)
	bookCmd.AddCommand(bookToggleCmd)
	bookCmd.AddCommand(bookRemoveCmd)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(triumphCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(gildCmd)
}
