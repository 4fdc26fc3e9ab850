package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/csg33k/parish-services/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.cfgFile); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", a.cfgFile)
			}
			cfg := config.DefaultConfig()
			if a.baseURL != "" {
				cfg.API.BaseURL = a.baseURL
			}
			if err := cfg.Save(a.cfgFile); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Wrote", a.cfgFile)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
