package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizline/chatflow/internal/validator"
	"github.com/quizline/chatflow/pkg/chatgraph"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the chatflow graph for consistency",
	Long:  `Parses the graph document and reports the first malformed node, broken dest, or missing entry node.`,
	Run: func(cmd *cobra.Command, args []string) {
		graphPath, _ := cmd.Flags().GetString("graph")
		if err := runValidate(graphPath); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Graph is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(graphPath string) error {
	doc, err := chatgraph.ParseFile(graphPath)
	if err != nil {
		return err
	}
	return validator.Validate(doc)
}
