package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/config"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search shows by title",
	Long: `Search the catalog and print one row per matching show, in catalog order.

Example:
  showfinder search girls
  showfinder search the office`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	catalog := client.NewClient(config.GetConfig())
	defer catalog.Close()

	term := strings.Join(args, " ")
	shows, err := catalog.SearchShows(cmd.Context(), term)
	if err != nil {
		return fmt.Errorf("search %q: %w", term, err)
	}

	rows := make([][]string, 0, len(shows))
	for _, show := range shows {
		rows = append(rows, []string{strconv.Itoa(show.ID), show.Name, show.ImageURL})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"ID", "Name", "Image"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
	return nil
}
