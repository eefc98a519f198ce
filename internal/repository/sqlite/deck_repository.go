package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: id=%s, title=%s", d.ID, d.Title)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO decks (id, user_id, title, source_chars)
VALUES (?, ?, ?, ?)
`, d.ID.String(), d.UserID.String(), d.Title, d.SourceChars)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
	}
	return err
}

func (r *deckRepository) Get(ctx context.Context, id uuid.UUID) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%s", id)

	var d models.Deck
	var deckID, userID string
	err := r.db.QueryRowContext(ctx, `
SELECT d.id, d.user_id, d.title, d.source_chars, d.created_at,
       (SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id) AS card_count
FROM decks d
WHERE d.id = ?
`, id.String()).Scan(&deckID, &userID, &d.Title, &d.SourceChars, &d.CreatedAt, &d.CardCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	if d.ID, err = uuid.Parse(deckID); err != nil {
		return nil, err
	}
	if d.UserID, err = uuid.Parse(userID); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT d.id, d.user_id, d.title, d.source_chars, d.created_at,
       (SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id) AS card_count
FROM decks d
WHERE d.user_id = ?
ORDER BY d.created_at DESC
`, userID.String())
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		var deckID, uid string
		if err := rows.Scan(&deckID, &uid, &d.Title, &d.SourceChars, &d.CreatedAt, &d.CardCount); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		if d.ID, err = uuid.Parse(deckID); err != nil {
			return nil, err
		}
		if d.UserID, err = uuid.Parse(uid); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}
