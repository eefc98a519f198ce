package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsaleh/murajaa/internal/errors"
	"github.com/hsaleh/murajaa/internal/models"
	"github.com/hsaleh/murajaa/internal/scheduler"
)

var now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func freshCard() models.Card {
	return models.Card{
		EaseFactor:   models.DefaultEaseFactor,
		IntervalDays: 0,
	}
}

func TestScheduleReview_FirstReviewGood(t *testing.T) {
	updated, err := scheduler.ScheduleReview(freshCard(), models.RatingGood, now)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.IntervalDays, "first review should set interval to 1")
	assert.Equal(t, models.DefaultEaseFactor, updated.EaseFactor, "good leaves ease unchanged")
	assert.Equal(t, 1, updated.ReviewCount)
	require.NotNil(t, updated.DueAt)
	assert.Equal(t, now.AddDate(0, 0, 1), *updated.DueAt)
}

func TestScheduleReview_FirstReviewEasy(t *testing.T) {
	updated, err := scheduler.ScheduleReview(freshCard(), models.RatingEasy, now)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.IntervalDays, "first-review floor applies to easy too")
	assert.InDelta(t, 2.5, updated.EaseFactor, 1e-9, "ease is already at the cap")
}

func TestScheduleReview_FirstReviewDifficult(t *testing.T) {
	updated, err := scheduler.ScheduleReview(freshCard(), models.RatingDifficult, now)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.IntervalDays)
	assert.InDelta(t, 2.3, updated.EaseFactor, 1e-9, "ease drops by 0.2")
	assert.Equal(t, 1, updated.LapseCount)
	assert.Equal(t, 1, updated.ReviewCount)
}

func TestScheduleReview_GoodGrowsByEase(t *testing.T) {
	card := freshCard()
	card.IntervalDays = 6

	updated, err := scheduler.ScheduleReview(card, models.RatingGood, now)
	require.NoError(t, err)

	assert.Equal(t, 15, updated.IntervalDays, "6 x 2.5 = 15")
	require.NotNil(t, updated.DueAt)
	assert.Equal(t, now.AddDate(0, 0, 15), *updated.DueAt)
}

func TestScheduleReview_EasyGrowsWithBonus(t *testing.T) {
	card := freshCard()
	card.IntervalDays = 6
	card.EaseFactor = 2.0

	updated, err := scheduler.ScheduleReview(card, models.RatingEasy, now)
	require.NoError(t, err)

	assert.Equal(t, 16, updated.IntervalDays, "round(6 x 2.0 x 1.3) = 16")
	assert.InDelta(t, 2.15, updated.EaseFactor, 1e-9)
}

func TestScheduleReview_DifficultResetsInterval(t *testing.T) {
	card := freshCard()
	card.IntervalDays = 40
	card.ReviewCount = 7

	updated, err := scheduler.ScheduleReview(card, models.RatingDifficult, now)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.IntervalDays)
	assert.Equal(t, 8, updated.ReviewCount)
	assert.Equal(t, 1, updated.LapseCount)
}

func TestScheduleReview_EaseFactorFloor(t *testing.T) {
	card := freshCard()
	card.IntervalDays = 10

	for i := 0; i < 10; i++ {
		var err error
		card, err = scheduler.ScheduleReview(card, models.RatingDifficult, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, card.EaseFactor, 1.3, "ease factor should not drop below 1.3")
	}
}

func TestScheduleReview_EaseFactorCap(t *testing.T) {
	card := freshCard()
	card.IntervalDays = 1

	for i := 0; i < 5; i++ {
		var err error
		card, err = scheduler.ScheduleReview(card, models.RatingEasy, now)
		require.NoError(t, err)
	}
	assert.InDelta(t, 2.5, card.EaseFactor, 1e-9, "ease factor should not exceed 2.5")
}

func TestScheduleReview_IntervalNonDecreasingOnSuccess(t *testing.T) {
	card := freshCard()
	ratings := []models.Rating{
		models.RatingGood, models.RatingGood, models.RatingEasy,
		models.RatingGood, models.RatingEasy,
	}

	prev := 0
	for _, r := range ratings {
		var err error
		card, err = scheduler.ScheduleReview(card, r, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, card.IntervalDays, prev,
			"interval must not shrink across easy/good ratings")
		prev = card.IntervalDays
	}
}

func TestScheduleReview_InvalidRating(t *testing.T) {
	_, err := scheduler.ScheduleReview(freshCard(), models.Rating("medium"), now)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidRating, appErr.Code)
}

func TestStageOf(t *testing.T) {
	tests := []struct {
		name string
		card models.Card
		want scheduler.Stage
	}{
		{"never reviewed", models.Card{}, scheduler.StageNew},
		{"short interval", models.Card{ReviewCount: 3, IntervalDays: 6}, scheduler.StageLearning},
		{"at threshold", models.Card{ReviewCount: 9, IntervalDays: 21}, scheduler.StageMature},
		{"demoted after lapse", models.Card{ReviewCount: 10, IntervalDays: 1, LapseCount: 1}, scheduler.StageLearning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scheduler.StageOf(tt.card))
		})
	}
}

func TestStageOf_DifficultDemotesMature(t *testing.T) {
	card := freshCard()
	card.IntervalDays = 30
	card.ReviewCount = 12
	require.Equal(t, scheduler.StageMature, scheduler.StageOf(card))

	card, err := scheduler.ScheduleReview(card, models.RatingDifficult, now)
	require.NoError(t, err)
	assert.Equal(t, scheduler.StageLearning, scheduler.StageOf(card))
}

func TestSelectDue_Ordering(t *testing.T) {
	past := now.Add(-48 * time.Hour)
	nearer := now.Add(-1 * time.Hour)
	future := now.Add(24 * time.Hour)

	a := models.Card{FrontText: "a", DueAt: &nearer, ReviewCount: 2}
	b := models.Card{FrontText: "b", DueAt: &past, ReviewCount: 5}
	c := models.Card{FrontText: "c", DueAt: &past, ReviewCount: 1}
	d := models.Card{FrontText: "d", DueAt: &future}

	got := scheduler.SelectDue([]models.Card{a, b, c, d}, now, 0)

	require.Len(t, got, 3, "future card must never be included")
	assert.Equal(t, "c", got[0].FrontText, "earlier due, fewer reviews first")
	assert.Equal(t, "b", got[1].FrontText)
	assert.Equal(t, "a", got[2].FrontText)
}

func TestSelectDue_UnscheduledCardsAreDue(t *testing.T) {
	later := now.Add(-time.Minute)
	scheduled := models.Card{FrontText: "scheduled", DueAt: &later}
	unscheduled := models.Card{FrontText: "new"}

	got := scheduler.SelectDue([]models.Card{scheduled, unscheduled}, now, 0)

	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].FrontText, "never-scheduled cards sort first")
}

func TestSelectDue_LimitAndRestartability(t *testing.T) {
	past := now.Add(-time.Hour)
	var cards []models.Card
	for i := 0; i < 10; i++ {
		cards = append(cards, models.Card{FrontText: string(rune('a' + i)), DueAt: &past, ReviewCount: i})
	}

	first := scheduler.SelectDue(cards, now, 4)
	second := scheduler.SelectDue(cards, now, 4)

	require.Len(t, first, 4)
	assert.Equal(t, first, second, "same input and now must yield the same sequence")
}

func TestSelectDue_TiesKeepInsertionOrder(t *testing.T) {
	past := now.Add(-time.Hour)
	a := models.Card{FrontText: "first", DueAt: &past, ReviewCount: 3}
	b := models.Card{FrontText: "second", DueAt: &past, ReviewCount: 3}

	got := scheduler.SelectDue([]models.Card{a, b}, now, 0)

	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].FrontText)
	assert.Equal(t, "second", got[1].FrontText)
}
