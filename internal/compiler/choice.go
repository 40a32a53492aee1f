package compiler

import (
	"fmt"

	"github.com/quizline/chatflow/pkg/chatgraph"
	"github.com/quizline/chatflow/pkg/line"
)

// Alphabet assigns answer letters to options in order. Options beyond
// the 26th are silently dropped; the source behavior is preserved as-is
// since intent past alphabet exhaustion is unspecified.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// PostbackData is the wire payload a choice button submits.
func PostbackData(label, letter string) string {
	return fmt.Sprintf("q=%s&a=%s", label, letter)
}

func choiceDisplayText(option string) string {
	return fmt.Sprintf("我選%s！", option)
}

func choiceButton(spec chatgraph.TemplateSpec, letter, option string) map[string]any {
	button := map[string]any{
		"type":   "button",
		"style":  "primary",
		"height": "sm",
		"action": map[string]any{
			"type":        "postback",
			"label":       option,
			"data":        PostbackData(spec.Label, letter),
			"displayText": choiceDisplayText(option),
		},
	}
	if spec.BG != "" {
		button["color"] = spec.BG
	}
	return button
}

func titleText(spec chatgraph.TemplateSpec) map[string]any {
	text := map[string]any{
		"type":   "text",
		"text":   spec.Title,
		"weight": "bold",
		"size":   "md",
		"wrap":   true,
	}
	if spec.FG != "" {
		text["color"] = spec.FG
	}
	return text
}

// buildChoiceBubble generates the id=1 layout: a single bubble with a
// title block followed by one postback button per option.
func buildChoiceBubble(spec chatgraph.TemplateSpec) line.FlexMessage {
	contents := []any{titleText(spec)}
	for i, option := range spec.Options {
		if i >= len(Alphabet) {
			break
		}
		contents = append(contents, choiceButton(spec, string(Alphabet[i]), option))
	}

	bubble := map[string]any{
		"type": "bubble",
		"body": map[string]any{
			"type":     "box",
			"layout":   "vertical",
			"spacing":  "md",
			"contents": contents,
		},
	}
	return line.NewFlex(spec.Title, bubble)
}

// buildChoiceCarousel generates the id=2 layout: a title-only card
// followed by one card per option, each carrying the same postback
// button shape as the id=1 layout.
func buildChoiceCarousel(spec chatgraph.TemplateSpec) line.FlexMessage {
	bubbles := []any{
		map[string]any{
			"type": "bubble",
			"body": map[string]any{
				"type":     "box",
				"layout":   "vertical",
				"contents": []any{titleText(spec)},
			},
		},
	}
	for i, option := range spec.Options {
		if i >= len(Alphabet) {
			break
		}
		bubbles = append(bubbles, map[string]any{
			"type": "bubble",
			"body": map[string]any{
				"type":     "box",
				"layout":   "vertical",
				"spacing":  "md",
				"contents": []any{
					map[string]any{
						"type": "text",
						"text": option,
						"wrap": true,
					},
					choiceButton(spec, string(Alphabet[i]), option),
				},
			},
		})
	}

	carousel := map[string]any{
		"type":     "carousel",
		"contents": bubbles,
	}
	return line.NewFlex(spec.Title, carousel)
}
