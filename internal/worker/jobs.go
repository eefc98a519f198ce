package worker

import (
	"context"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/generator"
	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
)

// GenerateDeckJob turns a deck's source text into cards in the background.
// The deck row already exists when the job is queued; cards appear once
// generation finishes. New cards carry no due time, so they are immediately
// due for a first review.
type GenerateDeckJob struct {
	Cards     repository.CardRepository
	Generator generator.Generator
	Deck      models.Deck
	Source    string
	CardCount int
}

func (j *GenerateDeckJob) Name() string { return "generate_deck" }

func (j *GenerateDeckJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"deck_id": j.Deck.ID,
		"user_id": j.Deck.UserID,
	})
	log.Info("starting deck generation from %d source chars", len(j.Source))

	generated, err := j.Generator.GenerateCards(ctx, j.Source, j.CardCount)
	if err != nil {
		log.Error("card generation failed: %v", err)
		return err
	}

	cards := make([]models.Card, 0, len(generated))
	for _, g := range generated {
		cards = append(cards, models.Card{
			ID:         uuid.New(),
			UserID:     j.Deck.UserID,
			DeckID:     j.Deck.ID,
			FrontText:  g.Front,
			BackText:   g.Back,
			EaseFactor: models.DefaultEaseFactor,
		})
	}

	if err := j.Cards.InsertBatch(ctx, cards); err != nil {
		log.Error("failed to insert generated cards: %v", err)
		return err
	}

	log.Info("deck generation complete: %d cards", len(cards))
	return nil
}
