package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizline/chatflow/internal/presentation/graph"
	"github.com/quizline/chatflow/internal/validator"
	"github.com/quizline/chatflow/pkg/chatgraph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render the chatflow as a Mermaid flowchart",
	Run: func(cmd *cobra.Command, args []string) {
		graphPath, _ := cmd.Flags().GetString("graph")

		doc, err := chatgraph.ParseFile(graphPath)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := validator.Validate(doc); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(graph.GenerateMermaid(doc))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
