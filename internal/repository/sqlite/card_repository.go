package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/logger"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const cardColumns = "id, user_id, deck_id, front_text, back_text, ease_factor, interval_days, due_at, review_count, lapse_count, created_at"

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: id=%s, deck_id=%s", c.ID, c.DeckID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO cards (id, user_id, deck_id, front_text, back_text, ease_factor, interval_days, due_at, review_count, lapse_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID.String(), c.UserID.String(), c.DeckID.String(), c.FrontText, c.BackText,
		c.EaseFactor, c.IntervalDays, c.DueAt, c.ReviewCount, c.LapseCount)
	if err != nil {
		log.Error("failed to insert card: %v", err)
	}
	return err
}

func (r *cardRepository) InsertBatch(ctx context.Context, cards []models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting %d cards", len(cards))

	return tx(ctx, r.db, func(t *sql.Tx) error {
		stmt, err := t.PrepareContext(ctx, `
INSERT INTO cards (id, user_id, deck_id, front_text, back_text, ease_factor, interval_days, due_at, review_count, lapse_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range cards {
			if _, err := stmt.ExecContext(ctx, c.ID.String(), c.UserID.String(), c.DeckID.String(),
				c.FrontText, c.BackText, c.EaseFactor, c.IntervalDays, c.DueAt, c.ReviewCount, c.LapseCount); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *cardRepository) Get(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%s", id)

	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id.String())
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) Update(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%s, interval=%d, ease=%.2f", c.ID, c.IntervalDays, c.EaseFactor)

	_, err := r.db.ExecContext(ctx, `
UPDATE cards
SET front_text = ?, back_text = ?, ease_factor = ?, interval_days = ?, due_at = ?, review_count = ?, lapse_count = ?
WHERE id = ?
`, c.FrontText, c.BackText, c.EaseFactor, c.IntervalDays, c.DueAt, c.ReviewCount, c.LapseCount, c.ID.String())
	if err != nil {
		log.Error("failed to update card: %v", err)
	}
	return err
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: user_id=%s, deck_id=%s", filter.UserID, filter.DeckID)

	query := sqlBuilder.Select(cardColumns).From("cards").OrderBy("created_at ASC", "id ASC")
	if filter.UserID != uuid.Nil {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID.String()})
	}
	if filter.DeckID != uuid.Nil {
		query = query.Where(squirrel.Eq{"deck_id": filter.DeckID.String()})
	}
	if filter.DueOnly {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"due_at": nil},
			squirrel.Expr("due_at <= CURRENT_TIMESTAMP"),
		})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectCards(rows)
}

func (r *cardRepository) ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching due cards: user_id=%s, limit=%d", userID, limit)

	// NULL due_at sorts first: never-scheduled cards are immediately due.
	rows, err := r.db.QueryContext(ctx, `
SELECT `+cardColumns+`
FROM cards
WHERE user_id = ? AND (due_at IS NULL OR due_at <= ?)
ORDER BY due_at IS NOT NULL, due_at ASC, review_count ASC, created_at ASC, id ASC
LIMIT ?
`, userID.String(), now, limit)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards, err := collectCards(rows)
	if err != nil {
		return nil, err
	}
	log.Debug("found %d due cards", len(cards))
	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var c models.Card
	var id, userID, deckID string
	var dueAt sql.NullTime
	if err := row.Scan(&id, &userID, &deckID, &c.FrontText, &c.BackText,
		&c.EaseFactor, &c.IntervalDays, &dueAt, &c.ReviewCount, &c.LapseCount, &c.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if c.UserID, err = uuid.Parse(userID); err != nil {
		return nil, err
	}
	if c.DeckID, err = uuid.Parse(deckID); err != nil {
		return nil, err
	}
	if dueAt.Valid {
		t := dueAt.Time
		c.DueAt = &t
	}
	return &c, nil
}

func collectCards(rows *sql.Rows) ([]models.Card, error) {
	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}
