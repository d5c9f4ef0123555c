package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katrinawoods/rsc2/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show exercise and card counts",
		Long:  "Show the database path and size, and how many exercises and cards it holds per namespace.",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	if formatFlag == "text" {
		printStats(cmd.OutOrStdout(), stats)
		return
	}
	printJSON(cmd.OutOrStdout(), stats)
}

func printStats(w io.Writer, st *store.Stats) {
	fmt.Fprintf(w, "database:  %s (%d bytes)\n", st.DBPath, st.DBSizeBytes)
	fmt.Fprintf(w, "exercises: %d\n", st.Exercises)
	fmt.Fprintf(w, "cards:     %d\n", st.Cards)
	if len(st.Namespaces) > 0 {
		printNamespaces(w, st.Namespaces)
	}
}
