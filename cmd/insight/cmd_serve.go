package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/astrocoach/insight/internal/dashboard"
	"github.com/astrocoach/insight/internal/logging"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local analytics dashboard",
		Long: `Start the dashboard HTTP server. With no --addr the OS assigns a free
localhost port, which is printed on startup. Stop with Ctrl-C.

Example:
  insight serve --addr localhost:8090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")

			svc, st, cfg, err := newService(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				cancel()
			}()

			server := dashboard.NewServer(svc)

			// Print the assigned address once the listener is up.
			go func() {
				for i := 0; i < 50; i++ {
					if a := server.Addr(); a != "" {
						logger.Info("dashboard listening", "url", "http://"+a)
						fmt.Fprintf(cmd.OutOrStdout(), "Dashboard: http://%s\n", a)
						return
					}
					time.Sleep(20 * time.Millisecond)
				}
			}()

			return server.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default: OS-assigned localhost port)")

	return cmd
}
