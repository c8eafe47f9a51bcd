package saga

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(ref string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return ref, nil }
}

func fail(err error) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return "", err }
}

func TestRunner_Run_AllSucceed(t *testing.T) {
	r := NewRunner(2)

	out := r.Run(context.Background(),
		NewStep("business", ok("msg-1")),
		NewStep("confirmation", ok("msg-2")),
	)

	require.False(t, out.Failed())
	assert.NoError(t, out.FirstError())
	assert.NoError(t, out.Err())

	business, found := out.Result("business")
	require.True(t, found)
	assert.Equal(t, "msg-1", business.Ref)
	confirmation, _ := out.Result("confirmation")
	assert.Equal(t, "msg-2", confirmation.Ref)
}

func TestRunner_Run_AttemptsEveryStep(t *testing.T) {
	r := NewRunner(0)
	var attempted int32
	boom := errors.New("provider rejected")

	out := r.Run(context.Background(),
		NewStep("business", func(context.Context) (string, error) {
			atomic.AddInt32(&attempted, 1)
			return "", boom
		}),
		NewStep("confirmation", func(context.Context) (string, error) {
			atomic.AddInt32(&attempted, 1)
			return "msg-2", nil
		}),
	)

	assert.Equal(t, int32(2), attempted)
	assert.True(t, out.Failed())
	assert.ErrorIs(t, out.FirstError(), boom)
	assert.ErrorIs(t, out.Err(), boom)

	confirmation, _ := out.Result("confirmation")
	assert.Equal(t, "msg-2", confirmation.Ref)
}

func TestRunner_Run_FirstErrorFollowsDeclarationOrder(t *testing.T) {
	r := NewRunner(2)
	first := errors.New("first")
	second := errors.New("second")

	out := r.Run(context.Background(),
		NewStep("a", func(context.Context) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return "", first
		}),
		NewStep("b", fail(second)),
	)

	assert.Same(t, first, out.FirstError())
}

func TestRunner_RunInOrder_StopsAtFirstFailure(t *testing.T) {
	r := NewRunner(1)
	boom := errors.New("send failed")
	called := false

	out := r.RunInOrder(context.Background(),
		NewStep("business", fail(boom)),
		NewStep("confirmation", func(context.Context) (string, error) {
			called = true
			return "x", nil
		}),
	)

	assert.False(t, called)
	assert.ErrorIs(t, out.FirstError(), boom)
	confirmation, _ := out.Result("confirmation")
	assert.True(t, confirmation.Skipped)
}

func TestRunner_RecoversPanics(t *testing.T) {
	r := NewRunner(1)

	out := r.Run(context.Background(), NewStep("explodes", func(context.Context) (string, error) {
		panic("nil map")
	}))

	require.True(t, out.Failed())
	assert.Contains(t, out.FirstError().Error(), "explodes")

	// the slot was released
	out = r.Run(context.Background(), NewStep("after", ok("fine")))
	assert.False(t, out.Failed())
}

func TestRunner_CancelledWhileWaitingForSlot(t *testing.T) {
	r := NewRunner(1)
	r.slots <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := r.Run(ctx, NewStep("blocked", ok("never")))
	assert.ErrorIs(t, out.FirstError(), context.Canceled)
}
