package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quizline/chatflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the chatflow version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(chatflow.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
