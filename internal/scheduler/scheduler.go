// Package scheduler implements the ease-factor spaced repetition algorithm.
// Everything here is pure: no I/O, no clocks, safe from any goroutine.
package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/models"
)

const (
	minEaseFactor = 1.3
	maxEaseFactor = 2.5
	easyBonus     = 1.3

	// MatureIntervalDays is the interval at which a card counts as mature.
	MatureIntervalDays = 21
)

// Stage describes where a card sits in its lifecycle. There is no terminal
// stage; a difficult rating can demote a mature card back to learning.
type Stage string

const (
	StageNew      Stage = "new"
	StageLearning Stage = "learning"
	StageMature   Stage = "mature"
)

// StageOf classifies a card by its review history and current interval.
func StageOf(card models.Card) Stage {
	switch {
	case card.ReviewCount == 0:
		return StageNew
	case card.IntervalDays >= MatureIntervalDays:
		return StageMature
	default:
		return StageLearning
	}
}

// ScheduleReview computes the card's next scheduling state for a rating.
//
//	difficult: interval resets to 1, ease drops 0.2 (floor 1.3), lapse recorded
//	good:      interval grows by the ease factor
//	easy:      interval grows by ease x 1.3, ease gains 0.15 (cap 2.5)
//
// In every case dueAt becomes now + interval days and the review count
// increments. A first review (interval 0) lands on 1 day regardless of
// rating.
func ScheduleReview(card models.Card, rating models.Rating, now time.Time) (models.Card, error) {
	switch rating {
	case models.RatingDifficult:
		card.IntervalDays = 1
		card.EaseFactor = math.Max(minEaseFactor, card.EaseFactor-0.2)
		card.LapseCount++
	case models.RatingGood:
		card.IntervalDays = grow(card.IntervalDays, card.EaseFactor)
	case models.RatingEasy:
		card.IntervalDays = grow(card.IntervalDays, card.EaseFactor*easyBonus)
		card.EaseFactor = math.Min(maxEaseFactor, card.EaseFactor+0.15)
	default:
		return card, errors.NewInvalidRatingError(string(rating))
	}

	due := now.AddDate(0, 0, card.IntervalDays)
	card.DueAt = &due
	card.ReviewCount++
	return card, nil
}

func grow(intervalDays int, factor float64) int {
	next := int(math.Round(float64(intervalDays) * factor))
	if next < 1 {
		return 1
	}
	return next
}

// SelectDue returns up to limit cards due at now, ordered by due time, then
// by review count (less-seen cards first), then by input order. A card with
// no due time has never been scheduled and is immediately due. The result is
// deterministic: the same input at the same now yields the same sequence.
func SelectDue(cards []models.Card, now time.Time, limit int) []models.Card {
	due := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if c.DueAt == nil || !c.DueAt.After(now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		di, dj := dueTime(due[i]), dueTime(due[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return due[i].ReviewCount < due[j].ReviewCount
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}

func dueTime(c models.Card) time.Time {
	if c.DueAt == nil {
		return time.Time{}
	}
	return *c.DueAt
}
