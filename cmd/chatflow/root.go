package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chatflow",
	Short: "chatflow is a configuration-driven conversational quiz bot",
	Long:  `chatflow runs quiz conversations described by a declarative YAML graph behind a LINE webhook.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("graph", "resource/chatflow.yaml", "Path to the chatflow graph document")
	rootCmd.PersistentFlags().String("config", "", "Path to the TOML configuration file")
}
