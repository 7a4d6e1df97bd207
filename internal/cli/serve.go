package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/mriynyk/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render and message HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			applyConfigFlagOverrides(cmd, app.Cfg, map[string]string{
				"listen":   "http_addr",
				"sanitize": "render.sanitize",
			})
			addr := app.Cfg.GetString("http_addr")
			if addr == "" {
				addr = ":8080"
			}
			if strings.TrimSpace(app.Cfg.GetString("auth.token")) == "" {
				app.Log.Printf("serve: auth.token is empty; API is unauthenticated")
			}
			app.Log.Printf("serve: listening on %s", addr)
			return server.New(app.Cfg, app.Store, app.Log).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("listen", "", "listen address (override config http_addr)")
	cmd.Flags().Bool("sanitize", false, "sanitize served HTML (override render.sanitize)")
	return cmd
}
