package recurrence

import (
	"bizbook/cmd/internal/domain/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
)

func assertSetMatchesGenerator(t *testing.T, anchor time.Time, s Settings) {
	t.Helper()
	set, err := NewRule(anchor, s).Set()
	require.NoError(t, err)
	assertDates(t, GenerateDates(anchor, s, 10), set.All())
}

func TestRule_MatchesGeneratorWithDayOfMonth(t *testing.T) {
	anchor := utc(2025, time.January, 31, 9)
	assertSetMatchesGenerator(t, anchor, Settings{Frequency: entity.FrequencyMonthly, Interval: 1, DayOfMonth: ptr(31), MaxOccurrences: ptr(4)})
}

func TestRule_MatchesGeneratorForWeekly(t *testing.T) {
	anchor := utc(2025, time.March, 3, 14)
	assertSetMatchesGenerator(t, anchor, Settings{Frequency: entity.FrequencyWeekly, Interval: 2, MaxOccurrences: ptr(5)})
}

func TestRule_AnchorOffDayOfMonth(t *testing.T) {
	anchor := utc(2025, time.January, 15, 9)
	end := utc(2025, time.April, 1, 0)

	tests := []struct {
		name string
		s    Settings
		want []time.Time
	}{
		{
			name: "later day",
			s:    Settings{Frequency: entity.FrequencyMonthly, Interval: 1, DayOfMonth: ptr(20), MaxOccurrences: ptr(3)},
			want: []time.Time{anchor, utc(2025, time.February, 20, 9), utc(2025, time.March, 20, 9)},
		},
		{
			name: "later day single occurrence",
			s:    Settings{Frequency: entity.FrequencyMonthly, Interval: 1, DayOfMonth: ptr(20), MaxOccurrences: ptr(1)},
			want: []time.Time{anchor},
		},
		{
			name: "earlier day",
			s:    Settings{Frequency: entity.FrequencyMonthly, Interval: 1, DayOfMonth: ptr(10), MaxOccurrences: ptr(3)},
			want: []time.Time{anchor, utc(2025, time.February, 10, 9), utc(2025, time.March, 10, 9)},
		},
		{
			name: "earlier day single occurrence",
			s:    Settings{Frequency: entity.FrequencyMonthly, Interval: 1, DayOfMonth: ptr(10), MaxOccurrences: ptr(1)},
			want: []time.Time{anchor},
		},
		{
			name: "clamped",
			s:    Settings{Frequency: entity.FrequencyMonthly, Interval: 1, DayOfMonth: ptr(31), MaxOccurrences: ptr(3)},
			want: []time.Time{anchor, utc(2025, time.February, 28, 9), utc(2025, time.March, 31, 9)},
		},
		{
			name: "every other month",
			s:    Settings{Frequency: entity.FrequencyMonthly, Interval: 2, DayOfMonth: ptr(20), MaxOccurrences: ptr(3)},
			want: []time.Time{anchor, utc(2025, time.March, 20, 9), utc(2025, time.May, 20, 9)},
		},
		{
			name: "until",
			s:    Settings{Frequency: entity.FrequencyMonthly, Interval: 1, DayOfMonth: ptr(20), EndDate: &end},
			want: []time.Time{anchor, utc(2025, time.February, 20, 9), utc(2025, time.March, 20, 9)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDates(t, tt.want, GenerateDates(anchor, tt.s, 10))
			assertSetMatchesGenerator(t, anchor, tt.s)
		})
	}
}

func TestNewRule(t *testing.T) {
	anchor := utc(2025, time.March, 15, 9)

	t.Run("monthly short day", func(t *testing.T) {
		r := NewRule(anchor, Settings{Frequency: entity.FrequencyMonthly, Interval: 3})
		assert.Equal(t, rrule.MONTHLY, r.Freq)
		assert.Equal(t, 3, r.Interval)
		assert.Equal(t, []int{15}, r.Bymonthday)
		assert.Empty(t, r.Bysetpos)
		assert.Empty(t, r.RDates)
		assert.Empty(t, r.ExDates)
	})

	t.Run("monthly long day", func(t *testing.T) {
		r := NewRule(anchor, Settings{Frequency: entity.FrequencyMonthly, DayOfMonth: ptr(30), MaxOccurrences: ptr(4)})
		assert.Equal(t, []int{28, 29, 30}, r.Bymonthday)
		assert.Equal(t, []int{-1}, r.Bysetpos)
		assert.Equal(t, 1, r.Interval)
		assert.Equal(t, []time.Time{anchor}, r.RDates)
		assert.Equal(t, []time.Time{utc(2025, time.March, 30, 9)}, r.ExDates)
		assert.Equal(t, 4, r.Count)
	})

	t.Run("bounds", func(t *testing.T) {
		end := utc(2025, time.December, 31, 0)
		r := NewRule(anchor, Settings{Frequency: entity.FrequencyDaily, EndDate: &end})
		assert.Equal(t, rrule.DAILY, r.Freq)
		assert.True(t, r.Until.Equal(end))
		assert.Zero(t, r.Count)

		r = NewRule(anchor, Settings{Frequency: entity.FrequencyYearly, MaxOccurrences: ptr(3)})
		assert.Equal(t, rrule.YEARLY, r.Freq)
		assert.Equal(t, 3, r.Count)
		assert.Empty(t, r.RDates)
	})
}
