package generation

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/phrazzld/fiszki-api/internal/domain"
)

// DemoModelName is recorded against generations produced by DemoGateway.
const DemoModelName = "demo/sentence-splitter"

const demoMaxCards = 10

// DemoGateway fabricates flashcards by splitting the input into sentences.
// It never touches the network and is meant for local runs and demos.
type DemoGateway struct {
	now func() time.Time
}

// NewDemoGateway returns a DemoGateway.
func NewDemoGateway() *DemoGateway {
	return &DemoGateway{now: time.Now}
}

var _ Gateway = (*DemoGateway)(nil)

// ModelName implements Gateway.
func (g *DemoGateway) ModelName() string { return DemoModelName }

// Send implements Gateway. Each sentence becomes one card: the first
// half of its words form the front, the rest the back.
func (g *DemoGateway) Send(ctx context.Context, userMessage string) (*ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cards := make([]domain.CardDraft, 0, demoMaxCards)
	for _, sentence := range splitSentences(userMessage) {
		words := strings.Fields(sentence)
		if len(words) < 2 {
			continue
		}
		half := len(words) / 2
		cards = append(cards, domain.CardDraft{
			Front: strings.Join(words[:half], " ") + " ...?",
			Back:  strings.Join(words[half:], " "),
		})
		if len(cards) == demoMaxCards {
			break
		}
	}

	content, err := json.Marshal(FlashcardsPayload{Flashcards: cards})
	if err != nil {
		return nil, err
	}

	return &ChatResponse{
		ID:      "demo",
		Model:   DemoModelName,
		Created: g.now().Unix(),
		Choices: []Choice{{
			Index:        0,
			Message:      Message{Role: "assistant", Content: string(content)},
			FinishReason: "stop",
		}},
	}, nil
}

func splitSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})

	out := sentences[:0]
	for _, s := range sentences {
		s = strings.TrimFunc(s, unicode.IsSpace)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
