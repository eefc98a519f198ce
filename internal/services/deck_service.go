package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/generator"
	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
	"github.com/hsaleh/murajaa/internal/worker"
)

// MaxSourceChars caps the study material accepted for one deck.
const MaxSourceChars = 50_000

// DeckService handles deck creation and card generation
type DeckService interface {
	CreateDeck(ctx context.Context, userID uuid.UUID, title, sourceText string, cardCount int) (*models.Deck, error)
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*models.Deck, error)
	ListDecks(ctx context.Context, userID uuid.UUID) ([]models.Deck, error)
	ListCards(ctx context.Context, userID, deckID uuid.UUID, limit, offset int) ([]models.Card, error)
}

type deckService struct {
	decks repository.DeckRepository
	cards repository.CardRepository
	gen   generator.Generator
	pool  *worker.Pool
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository, cards repository.CardRepository, gen generator.Generator, pool *worker.Pool) DeckService {
	return &deckService{decks: decks, cards: cards, gen: gen, pool: pool}
}

// CreateDeck stores the deck and queues card generation in the background.
// The returned deck has no cards yet; they appear once the job finishes.
func (s *deckService) CreateDeck(ctx context.Context, userID uuid.UUID, title, sourceText string, cardCount int) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	title = strings.TrimSpace(title)
	sourceText = strings.TrimSpace(sourceText)
	if title == "" {
		return nil, errors.NewValidationError("title", "must not be empty")
	}
	if sourceText == "" {
		return nil, errors.NewValidationError("source_text", "must not be empty")
	}
	if len(sourceText) > MaxSourceChars {
		return nil, errors.NewValidationError("source_text", "exceeds maximum length")
	}

	deck := models.Deck{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		SourceChars: len(sourceText),
	}
	if err := s.decks.Insert(ctx, deck); err != nil {
		log.Error("failed to insert deck: %v", err)
		return nil, errors.NewInternalError(err)
	}

	s.pool.Submit(&worker.GenerateDeckJob{
		Cards:     s.cards,
		Generator: s.gen,
		Deck:      deck,
		Source:    sourceText,
		CardCount: cardCount,
	})

	log.Info("deck created, generation queued: deck_id=%s, source_chars=%d", deck.ID, deck.SourceChars)
	return &deck, nil
}

func (s *deckService) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*models.Deck, error) {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context, userID uuid.UUID) ([]models.Deck, error) {
	decks, err := s.decks.List(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) ListCards(ctx context.Context, userID, deckID uuid.UUID, limit, offset int) ([]models.Card, error) {
	if _, err := s.GetDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	cards, err := s.cards.List(ctx, models.CardFilter{
		UserID: userID,
		DeckID: deckID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}
