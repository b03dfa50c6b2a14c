package assist

import (
	"context"
	"fmt"
	"strings"
)

// Flashcard is one question/answer pair.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizQuestion is one multiple-choice question with four options.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// MindMapNode is one node in the generated map.
type MindMapNode struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Connections []string `json:"connections"`
	Level       int      `json:"level"`
	Category    string   `json:"category"`
}

// MindMapCenter is the central topic with links to the main branches.
type MindMapCenter struct {
	ID          string        `json:"id"`
	Text        string        `json:"text"`
	Connections []mindMapLink `json:"connections"`
}

type mindMapLink struct {
	ID string `json:"id"`
}

// MindMapStructure counts the branches for the client.
type MindMapStructure struct {
	MainBranches int `json:"mainBranches"`
	SubBranches  int `json:"subBranches"`
	TotalNodes   int `json:"totalNodes"`
}

// MindMap is the full generated structure.
type MindMap struct {
	Center    MindMapCenter    `json:"center"`
	Nodes     []MindMapNode    `json:"nodes"`
	Structure MindMapStructure `json:"structure"`
}

// ExamQuestion is one generated exam item; Options is present for mcq only.
type ExamQuestion struct {
	Q       string   `json:"q"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"answer"`
}

// GenerateFlashcards asks the generator for count flashcards and coerces
// the reply into clean pairs. An empty result is an upstream failure.
func GenerateFlashcards(ctx context.Context, gen TextGenerator, topic, text string, count int, difficulty string) ([]Flashcard, error) {
	prompt := fmt.Sprintf(`Generate %d concise flashcards at %s difficulty.
Return ONLY valid JSON array of objects with fields: question (string), answer (string).
Make questions short and answers precise.
Topic: %s
Source Notes:
%s
`, count, difficulty, clamp(topic, 120), clamp(text, 4000))

	raw, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	decoded := []Flashcard{}
	if err := DecodeArray(raw, &decoded); err != nil {
		return nil, err
	}

	cards := []Flashcard{}
	for _, card := range decoded {
		card.Question = clamp(card.Question, 300)
		card.Answer = clamp(card.Answer, 600)
		if card.Question != "" && card.Answer != "" {
			cards = append(cards, card)
		}
	}
	if len(cards) == 0 {
		return nil, ErrUpstream
	}
	return cards, nil
}

// GenerateQuiz asks for multiple-choice questions; entries without exactly
// four options or a correct answer are dropped.
func GenerateQuiz(ctx context.Context, gen TextGenerator, topic, text string, count int, difficulty string) ([]QuizQuestion, error) {
	prompt := fmt.Sprintf(`Generate %d multiple choice quiz questions at %s difficulty.
Return ONLY valid JSON array of objects with fields: question (string), options (array of 4 strings), correctAnswer (string).
Make questions clear and options plausible but only one correct.
Topic: %s
Source Notes:
%s
`, count, difficulty, clamp(topic, 120), clamp(text, 4000))

	raw, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	decoded := []QuizQuestion{}
	if err := DecodeArray(raw, &decoded); err != nil {
		return nil, err
	}

	quiz := []QuizQuestion{}
	for _, item := range decoded {
		item.Question = clamp(item.Question, 300)
		if len(item.Options) > 4 {
			item.Options = item.Options[:4]
		}
		for i := range item.Options {
			item.Options[i] = clamp(item.Options[i], 200)
		}
		item.CorrectAnswer = clamp(item.CorrectAnswer, 200)
		if item.Question != "" && len(item.Options) == 4 && item.CorrectAnswer != "" {
			quiz = append(quiz, item)
		}
	}
	if len(quiz) == 0 {
		return nil, ErrUpstream
	}
	return quiz, nil
}

// GenerateMindMap asks for a hierarchical concept map and rebuilds the
// center links from the level-1 nodes.
func GenerateMindMap(ctx context.Context, gen TextGenerator, topic, text string, count int, difficulty string) (*MindMap, error) {
	nodeCount := count
	if nodeCount > 12 {
		nodeCount = 12
	}
	prompt := fmt.Sprintf(`Generate a comprehensive mind map structure for the topic "%s" based on the provided notes.
Return ONLY valid JSON object with this structure:
{
  "center": {
    "id": "center",
    "text": "string"
  },
  "nodes": [
    {
      "id": "string",
      "text": "string",
      "connections": ["string", "string"],
      "level": 1,
      "category": "string"
    }
  ]
}

Create a central topic node and %d related nodes with hierarchical connections.
Include main branches and sub-branches for comprehensive coverage.
Make it detailed and well-organized for studying.
Difficulty: %s
Source Notes:
%s

Focus on creating a logical hierarchy with main concepts branching into sub-concepts.
`, clamp(topic, 120), nodeCount, difficulty, clamp(text, 4000))

	raw, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	decoded := struct {
		Center struct {
			Text string `json:"text"`
		} `json:"center"`
		Nodes []MindMapNode `json:"nodes"`
	}{}
	if err := DecodeObject(raw, &decoded); err != nil {
		return nil, err
	}

	if len(decoded.Nodes) > 12 {
		decoded.Nodes = decoded.Nodes[:12]
	}
	nodes := []MindMapNode{}
	for i, node := range decoded.Nodes {
		if node.ID == "" {
			node.ID = fmt.Sprintf("node_%d", i)
		}
		node.ID = clamp(node.ID, 50)
		node.Text = clamp(node.Text, 100)
		if len(node.Connections) > 6 {
			node.Connections = node.Connections[:6]
		}
		if node.Level == 0 {
			node.Level = 1
		}
		if node.Category == "" {
			node.Category = "general"
		}
		node.Category = clamp(node.Category, 30)
		if node.Text != "" {
			nodes = append(nodes, node)
		}
	}
	if len(nodes) == 0 {
		return nil, ErrUpstream
	}

	var main, sub []MindMapNode
	for _, node := range nodes {
		switch node.Level {
		case 1:
			main = append(main, node)
		case 2:
			sub = append(sub, node)
		}
	}

	centerText := decoded.Center.Text
	if centerText == "" {
		centerText = topic
	}
	if centerText == "" {
		centerText = "Untitled"
	}

	links := []mindMapLink{}
	for i, node := range main {
		if i == 8 {
			break
		}
		links = append(links, mindMapLink{ID: node.ID})
	}

	return &MindMap{
		Center: MindMapCenter{
			ID:          "center",
			Text:        clamp(centerText, 100),
			Connections: links,
		},
		Nodes: nodes,
		Structure: MindMapStructure{
			MainBranches: len(main),
			SubBranches:  len(sub),
			TotalNodes:   len(nodes),
		},
	}, nil
}

// GenerateExamQuestions builds the strict exam-generator prompt and parses
// the returned question array.
func GenerateExamQuestions(ctx context.Context, gen TextGenerator, difficulty string, count int, types []string, topic string) ([]ExamQuestion, error) {
	typeList := "mcq, short, tf"
	if len(types) > 0 {
		typeList = strings.Join(types, ", ")
	}
	if topic == "" {
		topic = "general"
	}

	prompt := fmt.Sprintf(`You are an exam question generator. Return EXACTLY %d unique questions as a strict JSON array: [{"q": string, "type": "mcq"|"short"|"tf", "options"?: string[], "answer": string}].
- Difficulty: %s
- Allowed types: %s
- Topic/context: %s
- Vary phrasings and avoid repetition across questions.
- For mcq, include 4 plausible options and set answer to the correct option string.
- For tf, answer must be "T" or "F".
- Do NOT include any prose before/after; output ONLY the JSON array.`, count, difficulty, typeList, topic)

	raw, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	questions := []ExamQuestion{}
	if err := DecodeArray(raw, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
