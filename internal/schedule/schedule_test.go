package schedule_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/mathcat/internal/schedule"
	"github.com/vytor/mathcat/internal/testutil"
)

func TestPulse_ClearsAfterWindow(t *testing.T) {
	sched := testutil.NewManualScheduler()
	p := schedule.NewPulse[string](sched, 2*time.Second)

	p.Set("up")
	assert.Equal(t, "up", p.Get())

	sched.Advance(1999 * time.Millisecond)
	assert.Equal(t, "up", p.Get())

	sched.Advance(time.Millisecond)
	assert.Equal(t, "", p.Get())
	assert.Equal(t, 0, sched.Pending())
}

func TestPulse_NewValueSupersedesPendingReset(t *testing.T) {
	sched := testutil.NewManualScheduler()
	p := schedule.NewPulse[string](sched, 2*time.Second)

	p.Set("up")
	sched.Advance(1500 * time.Millisecond)
	p.Set("down")
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(600 * time.Millisecond)
	assert.Equal(t, "down", p.Get(), "first reset was cancelled")

	sched.Advance(1400 * time.Millisecond)
	assert.Equal(t, "", p.Get())
}

func TestPulse_StopCancelsAndIgnoresWrites(t *testing.T) {
	sched := testutil.NewManualScheduler()
	p := schedule.NewPulse[bool](sched, 600*time.Millisecond)

	p.Set(true)
	p.Stop()
	assert.Equal(t, 0, sched.Pending())
	assert.False(t, p.Get())

	p.Set(true)
	assert.False(t, p.Get())
	assert.Equal(t, 0, sched.Pending())
}

func TestPulse_SettingZeroClears(t *testing.T) {
	sched := testutil.NewManualScheduler()
	p := schedule.NewPulse[string](sched, time.Second)

	p.Set("up")
	p.Set("")
	assert.Equal(t, "", p.Get())
	assert.Equal(t, 0, sched.Pending())
}

func TestReal_CancelPreventsCallback(t *testing.T) {
	var fired atomic.Bool
	cancel := schedule.Real{}.AfterFunc(20*time.Millisecond, func() { fired.Store(true) })
	cancel()
	cancel()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
}
