package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katrinawoods/rsc2/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exercises",
		Run:   runList,
	}

	cmd.Flags().StringP("ns", "n", "", "Filter by namespace")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("keys-only", false, "Only output ns/key pairs")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	ns, _ := cmd.Flags().GetString("ns")
	limit, _ := cmd.Flags().GetInt("limit")
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	exercises, err := s.List(cmd.Context(), store.ListParams{NS: ns, Limit: limit})
	if err != nil {
		exitErr("list", err)
	}

	out := cmd.OutOrStdout()
	if keysOnly || formatFlag == "text" {
		for _, e := range exercises {
			if keysOnly {
				fmt.Fprintf(out, "%s/%s\n", e.NS, e.Key)
				continue
			}
			fmt.Fprintf(out, "%s  %s/%s  %d cards  %s\n", e.ID, e.NS, e.Key, e.Size, e.Title)
		}
		return
	}

	printJSON(out, exercises)
}
