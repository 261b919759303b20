package main

import (
	"log"

	"github.com/inkwell/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "inkwell [command] [flags]",
	Short:         "Inkwell: a small markdown blog",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd, args)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
}

// Execute runs the root command. It is called once by main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("inkwell: %v", err)
	}
}

func loadConfig() (config.AppConfig, error) {
	return config.LoadFile(configPath)
}
