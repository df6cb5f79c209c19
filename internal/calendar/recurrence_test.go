package calendar

import (
	"testing"
	"time"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHorizon(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"mid january", time.Date(2024, 1, 10, 13, 0, 0, 0, time.UTC), day(2024, 3, 31)},
		{"december rolls year", time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), day(2025, 2, 28)},
		{"leap february", day(2023, 12, 1), day(2024, 2, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Horizon(tt.now))
		})
	}
}

func TestExpandFixedSteps(t *testing.T) {
	now := day(2024, 1, 10)
	tests := []struct {
		name      string
		start     time.Time
		freq      models.Frequency
		step      int
		wantFirst time.Time
		wantCount int
	}{
		{"weekly from inside window", day(2024, 1, 5), models.Weekly, 7, day(2024, 1, 5), 13},
		{"bi-weekly from inside window", day(2024, 1, 5), models.BiWeekly, 14, day(2024, 1, 5), 7},
		{"weekly started long ago", day(2020, 1, 3), models.Weekly, 7, day(2024, 1, 5), 13},
		{"bi-weekly started last year", day(2023, 6, 2), models.BiWeekly, 14, day(2024, 1, 12), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := Expand(tt.start, tt.freq, now)
			require.NoError(t, err)
			require.Len(t, dates, tt.wantCount)
			assert.Equal(t, tt.wantFirst, dates[0])
			for i := 1; i < len(dates); i++ {
				assert.Equal(t, tt.step, daysBetween(dates[i-1], dates[i]))
			}
			assert.False(t, dates[len(dates)-1].After(Horizon(now)))
			assert.True(t, dates[len(dates)-1].AddDate(0, 0, tt.step).After(Horizon(now)))
		})
	}
}

func TestExpandMonthlyClampsToMonthEnd(t *testing.T) {
	dates, err := Expand(day(2024, 1, 31), models.Monthly, day(2024, 1, 15))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2024, 1, 31), day(2024, 2, 29), day(2024, 3, 31)}, dates)

	// The day of month is anchored on the start, not on the previous clamp.
	dates, err = Expand(day(2023, 1, 31), models.Monthly, day(2023, 4, 2))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2023, 4, 30), day(2023, 5, 31), day(2023, 6, 30)}, dates)
}

func TestExpandEdges(t *testing.T) {
	now := day(2024, 1, 10)

	dates, err := Expand(day(2024, 4, 1), models.Weekly, now)
	require.NoError(t, err)
	assert.Empty(t, dates, "start beyond horizon")

	dates, err = Expand(day(2024, 3, 31), models.Monthly, now)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(2024, 3, 31)}, dates, "start on horizon is included")

	_, err = Expand(day(2024, 1, 1), models.Frequency("daily"), now)
	assert.Error(t, err)
}

func TestExpandNormalizesTimeOfDay(t *testing.T) {
	dates, err := Expand(time.Date(2024, 1, 5, 17, 45, 0, 0, time.UTC), models.Weekly, day(2024, 1, 10))
	require.NoError(t, err)
	for _, d := range dates {
		assert.Equal(t, 0, d.Hour())
		assert.Equal(t, 0, d.Minute())
	}
}
