package store

import (
	"sync"
	"testing"

	"TimerBoard/timer"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type RegistrySuite struct {
	suite.Suite
	r *Registry
}

func (suite *RegistrySuite) SetupTest() {
	suite.r = New()
}

func (suite *RegistrySuite) TestInitialState() {
	suite.False(suite.r.IsRunning())
	suite.Empty(suite.r.Timers())
	suite.Equal(timer.InitialState(), suite.r.Snapshot())
}

func (suite *RegistrySuite) TestAppendOnly() {
	want := []timer.Timer{
		{Name: "Work", Duration: 1500},
		{Name: "Break", Duration: 300},
		{Name: "Work", Duration: 1500},
	}
	for i, t := range want {
		suite.r.AddTimer(t)
		suite.Equal(want[:i+1], suite.r.Timers())
	}
	suite.Len(suite.r.Timers(), len(want))
}

func (suite *RegistrySuite) TestIdempotence() {
	suite.r.StartTimers()
	once := suite.r.Snapshot()
	suite.r.StartTimers()
	suite.Equal(once, suite.r.Snapshot())
	suite.True(suite.r.IsRunning())

	suite.r.StopTimers()
	once = suite.r.Snapshot()
	suite.r.StopTimers()
	suite.Equal(once, suite.r.Snapshot())
	suite.False(suite.r.IsRunning())
}

func (suite *RegistrySuite) TestFlagIndependence() {
	suite.r.AddTimer(timer.Timer{Name: "Work", Duration: 1500})
	suite.False(suite.r.IsRunning())

	before := suite.r.Timers()
	suite.r.StartTimers()
	suite.Equal(before, suite.r.Timers())
	suite.r.StopTimers()
	suite.Equal(before, suite.r.Timers())
}

func (suite *RegistrySuite) TestScenarioA() {
	suite.r.AddTimer(timer.Timer{Name: "Work", Duration: 1500})
	suite.Equal([]timer.Timer{{Name: "Work", Duration: 1500}}, suite.r.Timers())
	suite.False(suite.r.IsRunning())
}

func (suite *RegistrySuite) TestScenarioB() {
	suite.r.StartTimers()
	suite.r.AddTimer(timer.Timer{Name: "Break", Duration: 300})
	suite.True(suite.r.IsRunning())
	suite.Equal([]timer.Timer{{Name: "Break", Duration: 300}}, suite.r.Timers())
}

func (suite *RegistrySuite) TestScenarioC() {
	suite.r.StartTimers()
	suite.r.StopTimers()
	suite.False(suite.r.IsRunning())
}

func (suite *RegistrySuite) TestSnapshotIsolation() {
	suite.r.AddTimer(timer.Timer{Name: "Work", Duration: 1500})

	timers := suite.r.Timers()
	timers[0].Name = "changed"
	_ = append(timers, timer.Timer{Name: "extra"})

	snap := suite.r.Snapshot()
	snap.Timers[0].Duration = 1
	snap.IsRunning = true

	suite.Equal([]timer.Timer{{Name: "Work", Duration: 1500}}, suite.r.Timers())
	suite.False(suite.r.IsRunning())
}

func (suite *RegistrySuite) TestInstanceIsolation() {
	other := New()
	suite.r.AddTimer(timer.Timer{Name: "Work", Duration: 1500})
	suite.r.StartTimers()

	suite.Empty(other.Timers())
	suite.False(other.IsRunning())
}

func (suite *RegistrySuite) TestSubscribe() {
	var got []timer.State
	cancel := suite.r.Subscribe(func(s timer.State) {
		got = append(got, s)
	})

	suite.r.AddTimer(timer.Timer{Name: "Work", Duration: 1500})
	suite.r.StartTimers()
	suite.Require().Len(got, 2)
	suite.Equal([]timer.Timer{{Name: "Work", Duration: 1500}}, got[0].Timers)
	suite.False(got[0].IsRunning)
	suite.True(got[1].IsRunning)

	cancel()
	cancel()
	suite.r.StopTimers()
	suite.Len(got, 2)
}

func (suite *RegistrySuite) TestSubscribeOrder() {
	var order []string
	suite.r.Subscribe(func(timer.State) { order = append(order, "first") })
	cancel := suite.r.Subscribe(func(timer.State) { order = append(order, "second") })
	suite.r.Subscribe(func(timer.State) { order = append(order, "third") })

	suite.r.StartTimers()
	suite.Equal([]string{"first", "second", "third"}, order)

	order = nil
	cancel()
	suite.r.StopTimers()
	suite.Equal([]string{"first", "third"}, order)
}

func (suite *RegistrySuite) TestListenerMayReenter() {
	suite.r.Subscribe(func(s timer.State) {
		if len(s.Timers) == 1 && !s.IsRunning {
			suite.r.StartTimers()
		}
	})

	suite.r.AddTimer(timer.Timer{Name: "Work", Duration: 1500})
	suite.True(suite.r.IsRunning())
}

func (suite *RegistrySuite) TestConcurrentDispatchNotifiesInOrder() {
	entered := make(chan struct{})
	release := make(chan struct{})

	var (
		mu   sync.Mutex
		seen []bool
	)
	first := true
	suite.r.Subscribe(func(s timer.State) {
		mu.Lock()
		seen = append(seen, s.IsRunning)
		block := first
		first = false
		mu.Unlock()
		if block {
			close(entered)
			<-release
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		suite.r.StartTimers()
	}()

	<-entered
	// Runs to completion while the first notification is still in progress.
	suite.r.StopTimers()
	close(release)
	<-done

	suite.False(suite.r.IsRunning())
	mu.Lock()
	defer mu.Unlock()
	suite.Equal([]bool{true, false}, seen)
}

func (suite *RegistrySuite) TestPanickingListenerDoesNotWedge() {
	boom := true
	var got []timer.State
	suite.r.Subscribe(func(s timer.State) {
		if boom {
			boom = false
			panic("listener failed")
		}
		got = append(got, s)
	})

	suite.Panics(suite.r.StartTimers)
	suite.r.StopTimers()
	suite.Require().Len(got, 1)
	suite.False(got[0].IsRunning)
}

func (suite *RegistrySuite) TestNilListener() {
	cancel := suite.r.Subscribe(nil)
	suite.NotPanics(func() {
		suite.r.StartTimers()
		cancel()
	})
}

func (suite *RegistrySuite) TestDispatchLogs() {
	core, logs := observer.New(zap.DebugLevel)
	r := New(WithLogger(zap.New(core)))

	r.Dispatch(timer.AddTimerAction{Payload: timer.Timer{Name: "Work", Duration: 1500}})
	r.Dispatch(nil)

	entries := logs.FilterMessage("action dispatched").All()
	suite.Require().Len(entries, 2)
	suite.Equal("registry", entries[0].LoggerName)
	suite.Equal("ADD_TIMER", entries[0].ContextMap()["action"])
	suite.Equal(int64(1), entries[0].ContextMap()["timers"])
	suite.Equal("<nil>", entries[1].ContextMap()["action"])
}

func TestRegistry(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}
