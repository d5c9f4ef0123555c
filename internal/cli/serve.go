package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katrinawoods/rsc2/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve exercise sessions over HTTP",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: $REORDER_ADDR or 127.0.0.1:8080)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr := cfg.Addr
	if a, _ := cmd.Flags().GetString("addr"); a != "" {
		addr = a
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(s,
		server.WithLogger(logger.Named("http")),
		server.WithShuffleSeed(cfg.ShuffleSeed),
		server.WithIdleTimeout(cfg.SessionTTL))
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		exitErr("serve", err)
	}
}
