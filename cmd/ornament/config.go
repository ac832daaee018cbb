package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/ornament/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective scene configuration as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _, err := setup(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Printf("Invalid config: %v\n", err)
			os.Exit(1)
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
