package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/config"
	"github.com/litflow/litflow/internal/home"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the litflow home directory and default config",
	Long: `Create the litflow home directory (default ~/.litflow) with a
default config.yaml. Existing config files are left untouched unless
--force is passed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		if h.ConfigExists() && !initForce {
			fmt.Printf("config already exists at %s (use --force to overwrite)\n", h.ConfigPath())
			return nil
		}

		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("initialized %s\n", h.Path())
		fmt.Printf("  config: %s\n", h.ConfigPath())
		fmt.Printf("  store:  %s\n", h.StorePath())
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
