package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quietlane/hostguard/internal/browser"
	"github.com/quietlane/hostguard/internal/server"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest snapshot, score, and regressions over local HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if !cmd.Flags().Changed("port") {
				port = cfg.Serve.Port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(store)
			addr, err := srv.Start(ctx, port)
			if err != nil {
				return err
			}
			defer srv.Stop()

			url := "http://" + addr
			fmt.Fprintf(os.Stderr, "[*] Serving posture status at %s (Ctrl+C to stop)\n", url)
			if cfg.Serve.OpenBrowser {
				browser.Open(url)
			}

			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "[*] Shutting down")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8742, "port to listen on (0 = OS-assigned)")
	return cmd
}
