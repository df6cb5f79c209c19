package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dueEvent(id string, date time.Time) Event {
	return Event{
		ID:      id,
		Title:   id,
		Date:    date,
		Payload: DuePayload{Account: models.Account{ID: id}, Due: decimal.NewFromInt(1)},
	}
}

func TestFilterMonth(t *testing.T) {
	events := []Event{
		dueEvent("jan-31", day(2024, 1, 31)),
		dueEvent("feb-1", day(2024, 2, 1)),
		dueEvent("feb-14", day(2024, 2, 14)),
		dueEvent("feb-29", day(2024, 2, 29)),
		dueEvent("mar-1", day(2024, 3, 1)),
	}

	got := FilterMonth(events, time.Date(2024, 2, 17, 8, 0, 0, 0, time.UTC))
	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"feb-1", "feb-14", "feb-29"}, ids)

	assert.Empty(t, FilterMonth(events, day(2024, 7, 1)))
	assert.Empty(t, FilterMonth(nil, day(2024, 2, 1)))
}

func TestFilterMonthOfDerivedSet(t *testing.T) {
	card := debt("d1", "Card", -500)
	card.DueDate = "2024-03-15"
	job := savings("s1", "Job", 100)
	job.IncomeSchedule = &models.IncomeSchedule{PayDayDate: "2024-01-01", Frequency: models.Monthly}

	all, _ := Derive([]models.Account{card, job}, day(2024, 1, 10))
	march := FilterMonth(all, day(2024, 3, 1))

	require.Len(t, march, 2)
	assert.Equal(t, "income-s1-2024-03-01", march[0].ID)
	assert.Equal(t, "due-d1-2024-03-15", march[1].ID)
}

func TestEventsOnAndDatesWithEvents(t *testing.T) {
	events := []Event{
		dueEvent("a", day(2024, 2, 1)),
		dueEvent("b", day(2024, 2, 1)),
		dueEvent("c", day(2024, 3, 5)),
	}

	on := EventsOn(events, time.Date(2024, 2, 1, 18, 0, 0, 0, time.UTC))
	assert.Len(t, on, 2)
	assert.Empty(t, EventsOn(events, day(2024, 2, 2)))

	assert.Equal(t, []time.Time{day(2024, 2, 1), day(2024, 3, 5)}, DatesWithEvents(events))
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 2, 1), m)

	_, err = ParseMonth("02/2024", time.UTC)
	assert.Error(t, err)
}

func TestBuildMonth(t *testing.T) {
	var events []Event
	for i := 0; i < 5; i++ {
		events = append(events, dueEvent(fmt.Sprintf("busy-%d", i), day(2024, 3, 15)))
	}
	events = append(events, dueEvent("quiet", day(2024, 3, 2)))

	view := BuildMonth(day(2024, 3, 1), events, day(2024, 3, 2), 0)

	// March 2024 starts on a Friday and ends on a Sunday.
	require.Len(t, view.Weeks, 6)
	for _, week := range view.Weeks {
		require.Len(t, week, 7)
		assert.Equal(t, time.Sunday, week[0].Date.Weekday())
	}
	assert.Equal(t, day(2024, 2, 25), view.Weeks[0][0].Date)
	assert.False(t, view.Weeks[0][0].InMonth)
	assert.Equal(t, day(2024, 4, 6), view.Weeks[5][6].Date)
	assert.Equal(t, "2024-03", view.Key)

	quiet := view.Weeks[0][6]
	assert.Equal(t, "2024-03-02", quiet.Key)
	assert.True(t, quiet.IsToday)
	assert.Len(t, quiet.Events, 1)

	busy := view.Weeks[2][5]
	assert.Equal(t, "2024-03-15", busy.Key)
	assert.Len(t, busy.Events, DefaultMaxEventsPerDay)
	assert.Equal(t, 2, busy.Hidden)

	empty := view.Weeks[3][0]
	assert.NotNil(t, empty.Events)
	assert.Empty(t, empty.Events)
	assert.Zero(t, empty.Hidden)

	assert.Equal(t, day(2024, 2, 1), view.Prev())
	assert.Equal(t, day(2024, 4, 1), view.Next())
}
