package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quizline/chatflow"
	"github.com/quizline/chatflow/pkg/domain"
	"github.com/quizline/chatflow/pkg/line"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Walk through the quiz on the terminal",
	Long:  `Runs the chatflow locally: messages print to stdout and choice buttons become numbered options.`,
	Run: func(cmd *cobra.Command, args []string) {
		graphPath, _ := cmd.Flags().GetString("graph")
		if err := runPlay(graphPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}

// choice is one postback button surfaced as a numbered option.
type choice struct {
	label string
	data  string
}

func runPlay(graphPath string) error {
	bot, err := chatflow.Load(graphPath)
	if err != nil {
		return err
	}

	profile := termenv.Ascii
	if term.IsTerminal(int(os.Stdout.Fd())) {
		profile = termenv.ColorProfile()
	}
	paint := func(s, color string) string {
		return termenv.String(s).Foreground(profile.Color(color)).String()
	}

	fmt.Println(paint("chatflow — local playthrough (type 'quit' to exit)", "#818cf8"))

	rc := domain.RenderContext{BaseURL: "https://chatflow.local/"}
	node := bot.Graph.NewInit()
	reader := bufio.NewReader(os.Stdin)

	var choices []choice
	for {
		fmt.Print(paint("> ", "#fb7185"))
		text, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		input := strings.TrimSpace(text)
		if input == "quit" || input == "exit" {
			fmt.Println(paint("Bye!", "#818cf8"))
			return nil
		}

		// A bare number picks the matching button from the last reply.
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(choices) {
			input = choices[n-1].data
		}

		node = node.Transition(input)
		choices = choices[:0]
		for _, msg := range node.Messages(rc) {
			printMessage(msg, paint, &choices)
		}
	}
}

func printMessage(msg line.Message, paint func(s, color string) string, choices *[]choice) {
	switch m := msg.(type) {
	case line.TextMessage:
		fmt.Println(m.Text)
	case line.ImageMessage:
		fmt.Println(paint("[image] ", "#a78bfa") + m.OriginalContentURL)
	case line.FlexMessage:
		printFlex(m.Contents, paint, choices)
	}
}

// printFlex walks a flex document, printing text blocks and turning
// postback buttons into numbered options.
func printFlex(contents any, paint func(s, color string) string, choices *[]choice) {
	doc, ok := contents.(map[string]any)
	if !ok {
		return
	}

	switch doc["type"] {
	case "text":
		if text, ok := doc["text"].(string); ok {
			fmt.Println(paint(text, "#c084fc"))
		}
	case "button":
		action, ok := doc["action"].(map[string]any)
		if !ok {
			return
		}
		label, _ := action["label"].(string)
		data, _ := action["data"].(string)
		*choices = append(*choices, choice{label: label, data: data})
		fmt.Printf("  %s %s\n", paint(fmt.Sprintf("%d)", len(*choices)), "#e879f9"), label)
	}

	for _, key := range []string{"body", "contents"} {
		switch child := doc[key].(type) {
		case map[string]any:
			printFlex(child, paint, choices)
		case []any:
			for _, c := range child {
				printFlex(c, paint, choices)
			}
		}
	}
}
