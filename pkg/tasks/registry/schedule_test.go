package registry

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vnykmshr/taskreg/internal/testutil"
)

var testNow = time.Date(2025, time.June, 2, 13, 0, 0, 0, time.UTC)

func mustParseCron(t *testing.T, expr string) cron.Schedule {
	t.Helper()
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	testutil.AssertNoError(t, err)
	return sched
}

func TestNextWaitPostponeWins(t *testing.T) {
	d, ok := nextWait(testNow, 5*time.Minute, time.Hour, []time.Time{DailyAt(14, 0)}, nil)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, d, 5*time.Minute)
}

func TestNextWaitInterval(t *testing.T) {
	d, ok := nextWait(testNow, 0, 30*time.Second, nil, nil)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, d, 30*time.Second)
}

func TestNextWaitIntervalBeatsDaily(t *testing.T) {
	d, ok := nextWait(testNow, 0, time.Minute, []time.Time{DailyAt(14, 0)}, nil)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, d, time.Minute)
}

func TestNextWaitDailyPicksNextTime(t *testing.T) {
	// 13:00 now; 14:00 is the next configured time even when listed last.
	daily := []time.Time{DailyAt(18, 0), DailyAt(14, 0), DailyAt(9, 30)}
	d, ok := nextWait(testNow, 0, 0, daily, nil)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, d, time.Hour)
}

func TestNextWaitDailyDoesNotRollOver(t *testing.T) {
	// 19:00 now; every configured time has passed, so no wait is computable.
	evening := time.Date(2025, time.June, 2, 19, 0, 0, 0, time.UTC)
	daily := []time.Time{DailyAt(9, 30), DailyAt(14, 0), DailyAt(18, 0)}
	_, ok := nextWait(evening, 0, 0, daily, nil)
	testutil.AssertEqual(t, ok, false)
}

func TestNextWaitDailyExactNowIsPassed(t *testing.T) {
	// A configured time equal to now is not "after now".
	_, ok := nextWait(testNow, 0, 0, []time.Time{DailyAt(13, 0)}, nil)
	testutil.AssertEqual(t, ok, false)
}

func TestNextWaitCron(t *testing.T) {
	// Top of every minute, with seconds field.
	sched := mustParseCron(t, "0 * * * * *")
	at := time.Date(2025, time.June, 2, 13, 0, 30, 0, time.UTC)
	d, ok := nextWait(at, 0, 0, nil, sched)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, d, 30*time.Second)
}

func TestNextWaitNoSourceIsDormant(t *testing.T) {
	_, ok := nextWait(testNow, 0, 0, nil, nil)
	testutil.AssertEqual(t, ok, false)
}

func TestDailyEntryGoesDormantAfterLastTime(t *testing.T) {
	clock := testutil.NewMockClock(time.Date(2025, time.June, 2, 19, 0, 0, 0, time.UTC))
	reg := NewWithConfig(Config{Clock: clock, Location: time.UTC})
	defer reg.Close()

	e, err := reg.Register(Task{
		Name:          "evening-report",
		Action:        noopAction(),
		DailyTimes:    []time.Time{DailyAt(9, 30), DailyAt(18, 0)},
		DeferFirstRun: true,
	})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, e.Dormant(), true)
	testutil.AssertEqual(t, e.NextRun().IsZero(), true)
}

func TestDormantEntryRevivedByManualRun(t *testing.T) {
	clock := testutil.NewMockClock(time.Date(2025, time.June, 2, 19, 0, 0, 0, time.UTC))
	reg := NewWithConfig(Config{Clock: clock, Location: time.UTC})
	defer reg.Close()

	var runs int32
	e, err := reg.Register(Task{
		Name:          "evening-report",
		Action:        countingAction(&runs),
		DailyTimes:    []time.Time{DailyAt(18, 0)},
		DeferFirstRun: true,
	})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, e.Dormant(), true)

	reg.Run("evening-report")
	testutil.WaitForInt32(t, &runs, 1, testutil.TestTimeout)

	// Still past the last daily time, so the entry settles back to dormant.
	testutil.Eventually(t, e.Dormant, testutil.TestTimeout, 10*time.Millisecond)
}

func TestDailyEntryArmsUpcomingTime(t *testing.T) {
	clock := testutil.NewMockClock(time.Date(2025, time.June, 2, 13, 0, 0, 0, time.UTC))
	reg := NewWithConfig(Config{Clock: clock, Location: time.UTC})
	defer reg.Close()

	e, err := reg.Register(Task{
		Name:          "afternoon-report",
		Action:        noopAction(),
		DailyTimes:    []time.Time{DailyAt(14, 0)},
		DeferFirstRun: true,
	})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, e.Dormant(), false)
	want := time.Date(2025, time.June, 2, 14, 0, 0, 0, time.UTC)
	testutil.AssertEqual(t, e.NextRun(), want)
}

func TestIntervalEntryKeepsRunning(t *testing.T) {
	reg := New()
	defer reg.Close()

	var runs int32
	_, err := reg.Register(Task{
		Name:          "heartbeat",
		Action:        countingAction(&runs),
		Interval:      15 * time.Millisecond,
		DeferFirstRun: true,
	})
	testutil.AssertNoError(t, err)

	testutil.WaitForInt32(t, &runs, 3, testutil.TestTimeout)
}

func TestCronEntryArmsNextRun(t *testing.T) {
	clock := testutil.NewMockClock(time.Date(2025, time.June, 2, 13, 0, 30, 0, time.UTC))
	reg := NewWithConfig(Config{Clock: clock, Location: time.UTC})
	defer reg.Close()

	e, err := reg.Register(Task{
		Name:          "minutely",
		Action:        noopAction(),
		Cron:          "0 * * * * *",
		DeferFirstRun: true,
	})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, e.Dormant(), false)
	want := time.Date(2025, time.June, 2, 13, 1, 0, 0, time.UTC)
	testutil.AssertEqual(t, e.NextRun(), want)
}
