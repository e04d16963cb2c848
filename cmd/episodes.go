package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/config"
)

var episodesCmd = &cobra.Command{
	Use:   "episodes <showID>",
	Short: "List every episode of a show",
	Args:  cobra.ExactArgs(1),
	RunE:  runEpisodes,
}

func init() {
	rootCmd.AddCommand(episodesCmd)
}

func runEpisodes(cmd *cobra.Command, args []string) error {
	showID, err := strconv.Atoi(args[0])
	if err != nil || showID < 1 {
		return fmt.Errorf("invalid show id %q", args[0])
	}

	catalog := client.NewClient(config.GetConfig())
	defer catalog.Close()

	episodes, err := catalog.ListEpisodes(cmd.Context(), showID)
	if err != nil {
		return fmt.Errorf("list episodes of show %d: %w", showID, err)
	}

	rows := make([][]string, 0, len(episodes))
	for _, ep := range episodes {
		rows = append(rows, []string{
			strconv.Itoa(ep.ID),
			strconv.Itoa(ep.Season),
			strconv.Itoa(ep.Number),
			ep.Label(),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"ID", "Season", "Number", "Episode"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	))
	return nil
}
