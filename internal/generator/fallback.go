package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/hsaleh/murajaa/internal/logger"
)

// Fallback generates cards and scenarios locally by splitting the source text
// into sentences. It is deterministic, which also makes it the generator of
// choice in tests. Quality is deliberately basic; deployments wanting real
// question synthesis point GENERATOR_URL at the generation service.
type Fallback struct {
	log *logger.Logger
}

// NewFallback creates the local sentence-splitting generator.
func NewFallback() *Fallback {
	return &Fallback{log: logger.Default().WithPrefix("generator")}
}

// GenerateCards turns each sentence into a card: the sentence with its last
// word blanked out on the front, the full sentence on the back.
func (f *Fallback) GenerateCards(ctx context.Context, sourceText string, count int) ([]GeneratedCard, error) {
	sentences := splitSentences(sourceText)
	if len(sentences) == 0 {
		return nil, fmt.Errorf("source text contains no sentences")
	}
	if count <= 0 || count > len(sentences) {
		count = len(sentences)
	}

	cards := make([]GeneratedCard, 0, count)
	for _, sentence := range sentences[:count] {
		words := strings.Fields(sentence)
		last := words[len(words)-1]
		front := strings.Join(words[:len(words)-1], " ") + " ____"
		if len(words) == 1 {
			front = "____"
		}
		cards = append(cards, GeneratedCard{Front: front, Back: last})
	}

	f.log.Debug("fallback generated %d cards from %d sentences", len(cards), len(sentences))
	return cards, nil
}

// GenerateScenario builds a multiple-choice quiz where each question asks for
// a sentence's missing last word, with other sentences' last words as
// distractors.
func (f *Fallback) GenerateScenario(ctx context.Context, sourceText string, difficulty string, questionCount int) (*GeneratedScenario, error) {
	cards, err := f.GenerateCards(ctx, sourceText, questionCount)
	if err != nil {
		return nil, err
	}

	questions := make([]GeneratedQuestion, 0, len(cards))
	for i, card := range cards {
		options := []string{card.Back}
		for j := 1; len(options) < 4 && j < len(cards); j++ {
			distractor := cards[(i+j)%len(cards)].Back
			if distractor != card.Back {
				options = append(options, distractor)
			}
		}
		questions = append(questions, GeneratedQuestion{
			Prompt:             card.Front,
			Options:            options,
			CorrectOptionIndex: 0,
		})
	}

	title := strings.Join(strings.Fields(sourceText)[:min(5, len(strings.Fields(sourceText)))], " ")
	return &GeneratedScenario{Title: title, Questions: questions}, nil
}

// splitSentences breaks text on terminal punctuation, dropping fragments too
// short to carry a fact.
func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})

	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len(strings.Fields(s)) >= 3 {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
