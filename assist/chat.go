package assist

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
)

// ChatReply is the study-buddy response body.
type ChatReply struct {
	Response    string   `json:"response"`
	Context     string   `json:"context"`
	Suggestions []string `json:"suggestions"`
	IsAI        bool     `json:"isAI"`
}

var cannedResponses = map[string][]string{
	"study": {
		"Try the Pomodoro technique: 25 minutes of focused study followed by a 5-minute break.",
		"Break down complex topics into smaller, manageable chunks.",
		"Use active recall techniques like flashcards or explaining concepts to yourself.",
		"Study in different environments to improve memory retention.",
	},
	"schedule": {
		"Prioritize tasks by deadline and importance using the AI prioritization tool.",
		"Schedule your most challenging subjects during your peak energy hours.",
		"Leave buffer time between study sessions for breaks and review.",
		"Use the schedule optimization feature to find the best study times.",
	},
	"budget": {
		"Track all expenses, even small ones, to identify spending patterns.",
		"Set up automatic savings transfers to build good habits.",
		"Use the 50/30/20 rule: 50% needs, 30% wants, 20% savings.",
		"Review your budget insights regularly to stay on track.",
	},
	"motivation": {
		"Remember why you started - visualize your long-term goals.",
		"Celebrate small wins and progress, not just final results.",
		"Find a study buddy or join a study group for accountability.",
		"Take care of your physical health - sleep, exercise, and nutrition matter.",
	},
}

// Chat answers a study-buddy message. With a configured generator it asks
// Gemini; otherwise it keyword-routes the message to a canned response.
// Upstream failures also fall back to canned text so chat never errors.
func Chat(ctx context.Context, gen TextGenerator, message string) ChatReply {
	if gen != nil && gen.Configured() {
		prompt := fmt.Sprintf(`You are a helpful AI study assistant for students. The student asked: "%s"

Please provide a helpful, encouraging, and practical response. Focus on:
- Study techniques and strategies
- Time management advice
- Motivation and mindset tips
- Academic success strategies
- Practical actionable steps

Keep your response conversational, friendly, and under 150 words. Be specific and helpful.

Response:`, message)

		if response, err := gen.Generate(ctx, prompt); err == nil {
			return ChatReply{
				Response: strings.TrimSpace(response),
				Context:  "ai",
				Suggestions: []string{
					"Ask me about study techniques",
					"Get help with time management",
					"Need motivation tips?",
					"Ask about exam preparation",
				},
				IsAI: true,
			}
		}
	}

	contextType := classifyMessage(message)
	options := cannedResponses[contextType]

	return ChatReply{
		Response: options[rand.Intn(len(options))],
		Context:  contextType,
		Suggestions: []string{
			"Ask me about study techniques",
			"Get help with scheduling",
			"Learn about budgeting tips",
			"Need motivation?",
		},
		IsAI: false,
	}
}

func classifyMessage(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "study") || strings.Contains(lower, "learn"):
		return "study"
	case strings.Contains(lower, "schedule") || strings.Contains(lower, "time"):
		return "schedule"
	case strings.Contains(lower, "budget") || strings.Contains(lower, "money"):
		return "budget"
	default:
		return "motivation"
	}
}
