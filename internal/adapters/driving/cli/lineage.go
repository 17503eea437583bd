package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var lineageCmd = &cobra.Command{
	Use:   "lineage [genome-id]",
	Short: "Show a genome's ancestry",
	Args:  cobra.ExactArgs(1),
	RunE:  runLineage,
}

func init() {
	rootCmd.AddCommand(lineageCmd)
}

func runLineage(cmd *cobra.Command, args []string) error {
	if err := requireBreeder(); err != nil {
		return err
	}

	lineage, err := breederService.Lineage(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load lineage: %w", err)
	}

	for i := range lineage {
		gen := "-"
		if lineage[i].Generation >= 0 {
			gen = strconv.Itoa(lineage[i].Generation)
		}
		cmd.Printf("%s%s  gen=%s  %s\n", indent(i), lineage[i].Genome.ID, gen, lineage[i].Operation)
		cmd.Printf("%s  %s\n", indent(i), preview(lineage[i].Genome.Content))
	}
	return nil
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
