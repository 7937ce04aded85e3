package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/embervale/ember/internal/app"
	"github.com/embervale/ember/internal/config"
	"github.com/embervale/ember/pkg/status"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var bind string
	var debug bool
	var faviconPath string

	cmd := &cobra.Command{
		Use:   "ember",
		Short: "Ember is a Minecraft Java Edition protocol engine server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bind") {
				cfg.BindAddress = bind
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}
			if faviconPath != "" {
				icon, err := status.LoadFavicon(faviconPath)
				if err != nil {
					return err
				}
				cfg.Favicon = icon
			}
			if err := config.Validate(&cfg); err != nil {
				return err
			}
			return app.Run(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "ember.yaml", "path to the YAML config file")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind_address (host:port)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable development-mode logging")
	cmd.Flags().StringVar(&faviconPath, "favicon", "", "path to a 64x64 server-icon.png")

	return cmd
}
