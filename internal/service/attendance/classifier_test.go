package attendance

import (
	"testing"
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/config"
	"github.com/dailylog/dailylog-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorkday(t *testing.T) config.WorkdayConfig {
	t.Helper()
	wd, err := config.NewWorkdayConfig(8*time.Hour, 17*time.Hour, time.Minute, 2*time.Hour, "Asia/Manila")
	require.NoError(t, err)
	return wd
}

// at builds an instant on the test day in the workday timezone.
func at(t *testing.T, wd config.WorkdayConfig, hour, minute int) *time.Time {
	t.Helper()
	instant := time.Date(2025, time.March, 10, hour, minute, 0, 0, wd.Location())
	return &instant
}

func TestClassify(t *testing.T) {
	wd := testWorkday(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, wd.Location())
	c := NewClassifier(wd)

	cases := []struct {
		name          string
		timeIn        *time.Time
		timeOut       *time.Time
		wantStatus    attendance.Status
		wantTotal     time.Duration
		wantOvertime  time.Duration
		wantUndertime time.Duration
	}{
		{
			name:       "no time-in is absent",
			wantStatus: attendance.StatusAbsent,
		},
		{
			name:       "arrival within grace is on time",
			timeIn:     at(t, wd, 8, 1),
			wantStatus: attendance.StatusOnTime,
		},
		{
			name:       "arrival before office start is on time",
			timeIn:     at(t, wd, 7, 45),
			wantStatus: attendance.StatusOnTime,
		},
		{
			name:       "arrival past grace is late",
			timeIn:     at(t, wd, 8, 5),
			wantStatus: attendance.StatusLate,
		},
		{
			name:       "arrival at the late threshold is absent",
			timeIn:     at(t, wd, 10, 0),
			wantStatus: attendance.StatusAbsent,
		},
		{
			name:       "arrival past the late threshold is absent",
			timeIn:     at(t, wd, 10, 5),
			wantStatus: attendance.StatusAbsent,
		},
		{
			name:          "time-out past office end is overtime",
			timeIn:        at(t, wd, 7, 55),
			timeOut:       at(t, wd, 18, 30),
			wantStatus:    attendance.StatusOvertime,
			wantTotal:     10*time.Hour + 35*time.Minute,
			wantOvertime:  time.Hour + 30*time.Minute,
			wantUndertime: 0,
		},
		{
			name:          "time-out before office end is undertime",
			timeIn:        at(t, wd, 8, 0),
			timeOut:       at(t, wd, 16, 30),
			wantStatus:    attendance.StatusUndertime,
			wantTotal:     8*time.Hour + 30*time.Minute,
			wantOvertime:  0,
			wantUndertime: 30 * time.Minute,
		},
		{
			name:       "time-out exactly at office end keeps base label",
			timeIn:     at(t, wd, 8, 0),
			timeOut:    at(t, wd, 17, 0),
			wantStatus: attendance.StatusOnTime,
			wantTotal:  9 * time.Hour,
		},
		{
			name:          "late arrival label yields to overtime",
			timeIn:        at(t, wd, 9, 0),
			timeOut:       at(t, wd, 18, 0),
			wantStatus:    attendance.StatusOvertime,
			wantTotal:     9 * time.Hour,
			wantOvertime:  time.Hour,
			wantUndertime: 0,
		},
		{
			name:       "late arrival with exact-end time-out stays late",
			timeIn:     at(t, wd, 8, 30),
			timeOut:    at(t, wd, 17, 0),
			wantStatus: attendance.StatusLate,
			wantTotal:  8*time.Hour + 30*time.Minute,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := c.Classify(day, tc.timeIn, tc.timeOut)
			assert.Equal(t, tc.wantStatus, res.Status)
			assert.Equal(t, tc.wantTotal, res.Total)
			assert.Equal(t, tc.wantOvertime, res.Overtime)
			assert.Equal(t, tc.wantUndertime, res.Undertime)
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	wd := testWorkday(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, wd.Location())
	c := NewClassifier(wd)

	in := at(t, wd, 8, 5)
	out := at(t, wd, 17, 45)

	first := c.Classify(day, in, out)
	second := c.Classify(day, in, out)
	assert.Equal(t, first, second)
}

func TestClassifyIgnoresSeconds(t *testing.T) {
	wd := testWorkday(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, wd.Location())
	c := NewClassifier(wd)

	// 08:01:45 truncates to 08:01, still inside a one-minute grace.
	in := time.Date(2025, time.March, 10, 8, 1, 45, 0, wd.Location())
	res := c.Classify(day, &in, nil)
	assert.Equal(t, attendance.StatusOnTime, res.Status)
}

func TestClassifyUTCInstants(t *testing.T) {
	wd := testWorkday(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, wd.Location())
	c := NewClassifier(wd)

	// 00:00 UTC is 08:00 in Asia/Manila.
	in := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	out := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	res := c.Classify(day, &in, &out)

	assert.Equal(t, attendance.StatusOnTime, res.Status)
	assert.Equal(t, 9*time.Hour, res.Total)
}
