package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	val     int
	dropped chan int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

func (m *testMsg) Drop() {
	if m.dropped != nil {
		m.dropped <- m.val
	}
}

func TestLoopProcessesMessagesInOrder(t *testing.T) {
	l := NewLoop()
	l.Interval = 0

	const count = 10
	seen := make(chan int, count)
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			if msg, ok := mc.CurrentMessage().(*testMsg); ok {
				mc.MessageTaken()
				seen <- msg.val
			}
		}))
		return nil
	}))
	l.AddRunnable(RunFunc(func(ctx context.Context) error {
		ctl := LoopCtlFrom(ctx)
		for i := 0; i < count; i++ {
			ctl.PostMessage(&testMsg{val: i})
		}
		ctl.TriggerNext()
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	for i := 0; i < count; i++ {
		select {
		case val := <-seen:
			require.Equal(t, i, val)
		case <-time.After(time.Second):
			t.Fatalf("message %d not processed", i)
		}
	}
	cancel()
	require.True(t, errors.Is(<-done, context.Canceled))
}

func TestLoopDropsUntakenMessages(t *testing.T) {
	l := NewLoop()
	l.Interval = 0

	var levels []int
	for lv := 0; lv < PriorityLevels; lv++ {
		l.AddController(lv, ControlFunc(func(cc ControlContext) error {
			levels = append(levels, cc.PriorityLevel())
			return nil
		}))
	}

	dropped := make(chan int, 1)
	l.PostMessage(&testMsg{val: 7, dropped: dropped})
	l.runIteration(context.Background())

	require.Equal(t, []int{PrLvInput, PrLvControl, PrLvActuate, PrLvPostProc}, levels)
	select {
	case val := <-dropped:
		require.Equal(t, 7, val)
	default:
		t.Fatal("message not dropped")
	}
}

func TestMessageStoreStopProcessing(t *testing.T) {
	iter := &iteration{messages: []Message{
		&testMsg{val: 0}, &testMsg{val: 1}, &testMsg{val: 2},
	}}
	var visited []int
	iter.ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
		msg := mc.CurrentMessage().(*testMsg)
		visited = append(visited, msg.val)
		mc.MessageTaken()
		if msg.val == 1 {
			mc.StopProcessing()
		}
	}))
	require.Equal(t, []int{0, 1}, visited)
	require.Equal(t, 1, iter.Len())
	require.Equal(t, 2, iter.messages[0].(*testMsg).val)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())

	errA, errB := errors.New("a"), errors.New("b")
	err := errs.Add(errA).Aggregate()
	require.EqualError(t, err, "a")
	err = errs.Add(errB).Aggregate()
	require.EqualError(t, err, "multiple errors:\na\nb")
	require.True(t, errors.Is(err, errB))
}

func TestRunnerWait(t *testing.T) {
	errBoom := errors.New("boom")
	r := NewRunner().Go(
		RunFunc(func(context.Context) error { return nil }),
		NamedRun("canceled", RunFunc(func(context.Context) error { return context.Canceled })),
		RunFunc(func(context.Context) error { return errBoom }),
	)
	err := r.Wait()
	require.Error(t, err)
	require.True(t, errors.Is(err, errBoom))
}
