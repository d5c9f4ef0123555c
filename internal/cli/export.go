package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katrinawoods/rsc2/internal/loader"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export exercises",
		Long: "Export every exercise as JSON (restorable with import --restore). " +
			"With --key or --id, writes that one exercise as a seed file instead.",
		Run: runExport,
	}

	cmd.Flags().StringP("ns", "n", "", "Filter by namespace")
	cmd.Flags().StringP("key", "k", "", "Export one exercise as a seed file")
	cmd.Flags().String("id", "", "Export one exercise as a seed file")
	cmd.Flags().String("seed-format", string(loader.FormatJSON), "Seed file format: json or yaml")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	ns, _ := cmd.Flags().GetString("ns")
	key, _ := cmd.Flags().GetString("key")
	id, _ := cmd.Flags().GetString("id")
	seedFormat, _ := cmd.Flags().GetString("seed-format")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if key != "" || id != "" {
		ex, err := s.Get(cmd.Context(), exerciseParams(cmd))
		if err != nil {
			exitErr("export", err)
		}
		b, err := loader.Encode(ex.Title, ex.Seed(), loader.Format(seedFormat))
		if err != nil {
			exitErr("encode", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(b), "\n"))
		return
	}

	exercises, err := s.ExportAll(cmd.Context(), ns)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd.OutOrStdout(), exercises)
}
