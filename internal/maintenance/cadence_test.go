package maintenance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func months(visits []Visit) []int {
	out := make([]int, 0, len(visits))
	for _, v := range visits {
		out = append(out, v.Month)
	}
	return out
}

func TestComputeSchedule(t *testing.T) {
	tests := []struct {
		name       string
		last, next string
		year       int
		wantMonths []int
	}{
		{name: "gap of 7 months is semi-annual", last: "2024-01-01", next: "2024-08-01", year: 2024, wantMonths: []int{0, 7}},
		{name: "gap of 8 months is annual", last: "2024-01-01", next: "2024-09-01", year: 2024, wantMonths: []int{8}},
		{name: "twelve month gap is annual on next month", last: "2023-05-10", next: "2024-05-10", year: 2025, wantMonths: []int{4}},
		{name: "same month is forced six months apart", last: "2024-03-15", next: "2024-03-20", year: 2024, wantMonths: []int{2, 8}},
		{name: "shifted anchor colliding with the other is separated", last: "2024-07-01", next: "2025-01-01", year: 2024, wantMonths: []int{0, 6}},
		{name: "year before last shifts both anchors", last: "2024-03-01", next: "2024-09-01", year: 2023, wantMonths: []int{2, 8}},
		{name: "cycle spanning the year boundary", last: "2024-10-05", next: "2025-04-05", year: 2025, wantMonths: []int{3, 9}},
		{name: "missing last date is exempt", last: "", next: "2024-09-01", year: 2024, wantMonths: []int{}},
		{name: "unparsable next date is exempt", last: "2024-01-01", next: "01/09/2024", year: 2024, wantMonths: []int{}},
		{name: "empty next date is exempt", last: "2024-01-01", next: "", year: 2024, wantMonths: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSchedule(equipmentWithDates("EQ-1", tt.last, tt.next), tt.year)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantMonths, months(got))
			for _, v := range got {
				assert.Equal(t, tt.year, v.Year)
			}
		})
	}
}

func TestComputeSchedule_Labels(t *testing.T) {
	semi := ComputeSchedule(equipmentWithDates("EQ-1", "2024-01-01", "2024-08-01"), 2024)
	require.Len(t, semi, 2)
	assert.Equal(t, LabelFirstVisit, semi[0].Label)
	assert.Equal(t, LabelSecondVisit, semi[1].Label)
	assert.Less(t, semi[0].Month, semi[1].Month)

	annual := ComputeSchedule(equipmentWithDates("EQ-1", "2024-01-01", "2024-09-01"), 2024)
	require.Len(t, annual, 1)
	assert.Equal(t, LabelFirstVisit, annual[0].Label)
}

func TestComputeSchedule_IsDeterministic(t *testing.T) {
	eq := equipmentWithDates("EQ-1", "2024-10-05", "2025-04-05")
	first := ComputeSchedule(eq, 2025)
	second := ComputeSchedule(eq, 2025)
	assert.Equal(t, first, second)
}

func TestComputeSchedule_AcceptsTimestamps(t *testing.T) {
	got := ComputeSchedule(equipmentWithDates("EQ-1", "2024-01-01T00:00:00Z", "2024-07-01T00:00:00Z"), 2024)
	assert.Equal(t, []int{0, 6}, months(got))
}

func TestCadenceOf(t *testing.T) {
	c, ok := CadenceOf(equipmentWithDates("EQ-1", "2024-01-10", "2024-07-10"))
	require.True(t, ok)
	assert.Equal(t, CadenceSemiAnnual, c)
	assert.Equal(t, 6, c.Months())

	c, ok = CadenceOf(equipmentWithDates("EQ-1", "2023-01-10", "2024-01-10"))
	require.True(t, ok)
	assert.Equal(t, CadenceAnnual, c)
	assert.Equal(t, "annual", c.String())

	_, ok = CadenceOf(equipmentWithDates("EQ-1", "", "2024-01-10"))
	assert.False(t, ok)
}

func TestMonthSlots(t *testing.T) {
	slots := MonthSlots([]Visit{{Year: 2024, Month: 1, Label: "MP1"}, {Year: 2024, Month: 7, Label: "MP2"}})
	assert.Equal(t, "MP1", slots[1])
	assert.Equal(t, "MP2", slots[7])
	assert.Equal(t, "", slots[0])
}

func TestDueDate(t *testing.T) {
	due := DueDate(2024, 1, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC), due)

	december := DueDate(2024, 11, time.UTC)
	assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), december)
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate(" 2024-07-15 ")
	require.True(t, ok)
	assert.Equal(t, "2024-07-15", FormatDate(d))

	_, ok = ParseDate("2024-13-01")
	assert.False(t, ok)
	_, ok = ParseDate("")
	assert.False(t, ok)
}
