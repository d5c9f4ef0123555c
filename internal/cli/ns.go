package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katrinawoods/rsc2/internal/store"
)

func init() {
	nsCmd := &cobra.Command{
		Use:   "ns",
		Short: "Exercise namespaces",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List namespaces with their exercise and card counts",
		Run:   runNSList,
	}

	nsCmd.AddCommand(listCmd)
	RootCmd.AddCommand(nsCmd)
}

func runNSList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rows, err := s.ListNamespaces(cmd.Context())
	if err != nil {
		exitErr("list namespaces", err)
	}

	if formatFlag == "text" {
		printNamespaces(cmd.OutOrStdout(), rows)
		return
	}
	if rows == nil {
		rows = []store.NamespaceStats{}
	}
	printJSON(cmd.OutOrStdout(), rows)
}

func printNamespaces(w io.Writer, rows []store.NamespaceStats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAMESPACE\tEXERCISES\tCARDS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", r.NS, r.Exercises, r.Cards)
	}
	tw.Flush()
}
