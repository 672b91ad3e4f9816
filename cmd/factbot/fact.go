package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/factbot/internal/facts"
)

var (
	factCount    int
	factRandSeed uint64
)

var factCmd = &cobra.Command{
	Use:   "fact <category>",
	Short: "Print a fact from the built-in table without contacting Telegram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if factCount < 1 {
			return fmt.Errorf("--count must be at least 1")
		}
		store := facts.NewStore(facts.Builtin(), facts.SeededRand(factRandSeed))
		for i := 0; i < factCount; i++ {
			fmt.Fprintln(cmd.OutOrStdout(), store.Resolve(cmd.Context(), args[0]))
		}
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List fact categories and how many facts each holds",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		table := facts.Builtin()
		for _, c := range facts.Categories() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %d\n", c, table.Len(c))
		}
	},
}

func init() {
	factCmd.Flags().IntVarP(&factCount, "count", "n", 1, "number of facts to draw")
	factCmd.Flags().Uint64Var(&factRandSeed, "rand-seed", 0, "seed for reproducible draws (0 is random)")
	rootCmd.AddCommand(factCmd, categoriesCmd)
}
