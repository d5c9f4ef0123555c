package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katrinawoods/rsc2/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete an exercise",
		Run:   runRm,
	}

	addExerciseFlags(cmd)
	cmd.MarkFlagsOneRequired("id", "key")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	p := exerciseParams(cmd)

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.Rm(cmd.Context(), store.RmParams{ID: p.ID, NS: p.NS, Key: p.Key}); err != nil {
		exitErr("rm", err)
	}

	if p.ID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", p.ID)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"ns":%q,"key":%q}`+"\n", p.NS, p.Key)
}
