package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katrinawoods/rsc2/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show an exercise with its cards and answer key",
		Run:   runGet,
	}

	addExerciseFlags(cmd)
	cmd.MarkFlagsOneRequired("id", "key")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ex, err := s.Get(cmd.Context(), exerciseParams(cmd))
	if err != nil {
		exitErr("get", err)
	}

	if formatFlag == "text" {
		printExercise(cmd.OutOrStdout(), ex)
		return
	}
	printJSON(cmd.OutOrStdout(), ex)
}

func printExercise(w io.Writer, ex *model.Exercise) {
	fmt.Fprintf(w, "%s/%s  %s\n", ex.NS, ex.Key, ex.Title)
	fmt.Fprintln(w, "cards:")
	for i, c := range ex.InitialOrder {
		fmt.Fprintf(w, "  %2d. [%s] %s\n", i+1, c.ID, c.Content)
	}
	fmt.Fprintln(w, "answer:")
	for i, a := range ex.CorrectOrder {
		fmt.Fprintf(w, "  %2d. %s\n", i+1, a)
	}
}
