package components

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fibercore/component"
	"github.com/fibercore/component/fiber"
	"github.com/fibercore/component/taskproc"
)

func newTestContext(t *testing.T, observer *Observer) *component.Context {
	t.Helper()
	return component.New(context.Background(), nil, Names(),
		component.WithRuntime(fiber.NewGoroutineRuntime()),
		component.WithTaskProcessors(taskproc.Registry{
			WorkerTaskProcessorName: taskproc.NewPool(WorkerTaskProcessorName, 2),
		}),
	)
}

func TestFactories_BuildEveryDeclaredName(t *testing.T) {
	observer := NewObserver(Names())
	for name := range observer.cfg {
		observer.cfg[name] = Cfg{Delay: time.Millisecond}
	}
	c := newTestContext(t, observer)

	require.NoError(t, c.AddComponents(context.Background(), Factories(observer)))
	require.NoError(t, c.OnAllComponentsLoaded(context.Background()))

	for _, name := range Names() {
		assert.Equal(t, StatusRunning, observer.GetStatus(name), "component %s", name)
	}
}

func TestFactories_RecordDeclaredEdges(t *testing.T) {
	observer := NewObserver(Names())
	for name := range observer.cfg {
		observer.cfg[name] = Cfg{Delay: time.Millisecond}
	}
	c := newTestContext(t, observer)

	require.NoError(t, c.AddComponents(context.Background(), Factories(observer)))

	deps := c.Dependencies()
	assert.ElementsMatch(t, []string{"webserver"}, deps["bookapi"])
	assert.ElementsMatch(t, []string{"cache", "listener"}, deps["bookrepo"])
	assert.ElementsMatch(t, []string{"userapi", "userrepo", "bookservice"}, deps["userservice"])
	assert.ElementsMatch(t, []string{"userservice"}, deps["worker"])
}

func TestFactories_InjectedFailureFailsOnlyThatComponent(t *testing.T) {
	observer := NewObserver(Names())
	for name := range observer.cfg {
		observer.cfg[name] = Cfg{Delay: time.Millisecond}
	}
	msg := "boom"
	require.NoError(t, observer.UpdateComponent("redis", Cfg{Err: &msg, Delay: time.Millisecond}))

	c := newTestContext(t, observer)
	err := c.AddComponents(context.Background(), Factories(observer))

	require.Error(t, err)
	assert.Equal(t, StatusFailed, observer.GetStatus("redis"))
}

func TestWorkerFactory_SubmitsAJobToTheRegisteredProcessor(t *testing.T) {
	observer := NewObserver(Names())
	for name := range observer.cfg {
		observer.cfg[name] = Cfg{Delay: time.Millisecond}
	}
	c := newTestContext(t, observer)

	require.NoError(t, c.AddComponents(context.Background(), Factories(observer)))

	assert.Eventually(t, func() bool {
		return observer.GetStatus("worker") == StatusRunning
	}, time.Second, time.Millisecond)
}

func TestObserver_KillComponentMarksFailedAndCancelsLoad(t *testing.T) {
	observer := NewObserver(Names())
	for name := range observer.cfg {
		observer.cfg[name] = Cfg{Delay: 200 * time.Millisecond}
	}
	c := newTestContext(t, observer)
	observer.SetCancel(func() { c.CancelComponentsLoad() })

	done := make(chan error, 1)
	go func() { done <- c.AddComponents(context.Background(), Factories(observer)) }()

	require.NoError(t, observer.KillComponent("redis"))

	err := <-done
	assert.Error(t, err)
	assert.Equal(t, StatusFailed, observer.GetStatus("redis"))
}

func TestObserver_UpdateComponentRejectsUnknownName(t *testing.T) {
	observer := NewObserver(Names())
	assert.Error(t, observer.UpdateComponent("does-not-exist", Cfg{}))
}
