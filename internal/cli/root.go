// Package cli implements the reorder CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katrinawoods/rsc2/internal/config"
	"github.com/katrinawoods/rsc2/internal/logging"
	"github.com/katrinawoods/rsc2/internal/store"
)

var (
	dbPath     string
	formatFlag string
	verbose    bool

	cfg    = &config.Config{}
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "reorder",
	Short: "Put the cards in the right order",
	Long: "Store card-ordering exercises and play them: pick two cards to swap them, " +
		"then check the arrangement against the answer key.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if dbPath != "" {
			c.DBPath = dbPath
		}
		level := c.LogLevel
		if verbose {
			level = "debug"
		}
		l, err := logging.New(level)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $REORDER_DB or ~/.reorder/reorder.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")
}

func getDBPath() string {
	return cfg.Database()
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func exitErr(msg string, err error) {
	logger.Debug("command failed", zap.String("op", msg), zap.Error(err))
	_ = logger.Sync()
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// addExerciseFlags registers the flags that address one stored exercise.
func addExerciseFlags(cmd *cobra.Command) {
	cmd.Flags().String("id", "", "Exercise ID")
	cmd.Flags().StringP("ns", "n", "", "Namespace (default: default)")
	cmd.Flags().StringP("key", "k", "", "Key")
}

func exerciseParams(cmd *cobra.Command) store.GetParams {
	id, _ := cmd.Flags().GetString("id")
	ns, _ := cmd.Flags().GetString("ns")
	key, _ := cmd.Flags().GetString("key")
	return store.GetParams{ID: id, NS: ns, Key: key}
}
