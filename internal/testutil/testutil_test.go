package testutil

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestEventually(t *testing.T) {
	var flag int32
	go func() {
		time.Sleep(20 * time.Millisecond)
		atomic.StoreInt32(&flag, 1)
	}()

	Eventually(t, func() bool {
		return atomic.LoadInt32(&flag) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestWaitForInt32(t *testing.T) {
	var counter int32
	go func() {
		for i := 0; i < 3; i++ {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&counter, 1)
		}
	}()

	WaitForInt32(t, &counter, 3, time.Second)
}

func TestMockClock(t *testing.T) {
	start := time.Date(2024, time.March, 1, 13, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	AssertEqual(t, clock.Now(), start)

	clock.Advance(time.Hour)
	AssertEqual(t, clock.Now(), start.Add(time.Hour))

	later := start.Add(6 * time.Hour)
	clock.Set(later)
	AssertEqual(t, clock.Now(), later)
}

func TestMockClock_ZeroStart(t *testing.T) {
	clock := NewMockClock(time.Time{})
	if clock.Now().IsZero() {
		t.Error("zero start should default to current time")
	}
}
