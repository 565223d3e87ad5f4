package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardLogger struct{}

func (discardLogger) Infof(string, ...interface{})  {}
func (discardLogger) Errorf(string, ...interface{}) {}
func (discardLogger) Debugf(string, ...interface{}) {}
func (discardLogger) Warnf(string, ...interface{})  {}

func TestUsecase_StartAllThenStopAllRoundTrips(t *testing.T) {
	u := NewUsecase(discardLogger{}, "")

	require.NoError(t, u.StartAll(context.Background(), "g1"))

	graph, err := u.Graph(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "ready", graph.Status)
	assert.NotEmpty(t, graph.Components)

	dot := u.GraphDOT(context.Background(), "g1")
	assert.Contains(t, dot, "digraph")

	require.NoError(t, u.StopAll(context.Background(), "g1"))

	graph, err = u.Graph(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "stopped", graph.Status)
}

func TestUsecase_StopAllBeforeStartIsRejected(t *testing.T) {
	u := NewUsecase(discardLogger{}, "")
	err := u.StopAll(context.Background(), "never-started")
	assert.Error(t, err)
}

func TestUsecase_StartAllTwiceIsRejectedUntilStopped(t *testing.T) {
	u := NewUsecase(discardLogger{}, "")
	require.NoError(t, u.StartAll(context.Background(), "g1"))

	err := u.StartAll(context.Background(), "g1")
	assert.Error(t, err)
}

func TestUsecase_UpdateAndKillComponentRouteToTheObserver(t *testing.T) {
	u := NewUsecase(discardLogger{}, "")
	g := u.acquireGraph("g1", true)

	require.NoError(t, u.UpdateComponent(context.Background(), "g1", "redis", 5*time.Millisecond, nil))
	assert.Equal(t, 5*time.Millisecond, g.observer.GetCfg("redis").Delay)

	require.NoError(t, u.KillComponent(context.Background(), "g1", "redis"))
	assert.Equal(t, "failed", string(g.observer.GetStatus("redis")))
}
