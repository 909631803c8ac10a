package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	var got []string
	for _, name := range []string{"ui", "audio", "vfx"} {
		name := name
		bus.Subscribe(KindGameOver, func(Event) error {
			got = append(got, name)
			return nil
		})
	}

	require.NoError(t, bus.Publish(GameOver{FinalScore: 3}))
	require.Equal(t, []string{"ui", "audio", "vfx"}, got)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	t.Parallel()

	require.NoError(t, NewBus(nil).Publish(ScoreChanged{Score: 1}))
}

func TestPublishOnlyMatchingKind(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	calls := 0
	bus.Subscribe(KindScoreChanged, func(Event) error { calls++; return nil })

	require.NoError(t, bus.Publish(HighScoreBeaten{HighScore: 4}))
	require.Equal(t, 0, calls)
	require.NoError(t, bus.Publish(ScoreChanged{Score: 4}))
	require.Equal(t, 1, calls)
}

func TestHandlerFailureIsolated(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	boom := errors.New("boom")
	var reached []int

	bus.Subscribe(KindAchievementUnlocked, func(Event) error { reached = append(reached, 1); return boom })
	bus.Subscribe(KindAchievementUnlocked, func(Event) error { reached = append(reached, 2); panic("kaput") })
	bus.Subscribe(KindAchievementUnlocked, func(Event) error { reached = append(reached, 3); return nil })

	err := bus.Publish(AchievementUnlocked{ID: "FIRST_FLIGHT"})
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "kaput")
	require.Equal(t, []int{1, 2, 3}, reached)
}

func TestSubscriptionCancel(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	var got []string
	a := bus.Subscribe(KindScoreChanged, func(Event) error { got = append(got, "a"); return nil })
	bus.Subscribe(KindScoreChanged, func(Event) error { got = append(got, "b"); return nil })

	a.Cancel()
	a.Cancel()
	require.Equal(t, 1, bus.Len(KindScoreChanged))

	require.NoError(t, bus.Publish(ScoreChanged{Score: 2}))
	require.Equal(t, []string{"b"}, got)
}

func TestSubscribeDuringPublish(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	late := 0
	bus.Subscribe(KindScoreChanged, func(Event) error {
		bus.Subscribe(KindScoreChanged, func(Event) error { late++; return nil })
		return nil
	})

	require.NoError(t, bus.Publish(ScoreChanged{Score: 1}))
	require.Equal(t, 0, late, "subscribers added mid-publish wait for the next event")
	require.NoError(t, bus.Publish(ScoreChanged{Score: 2}))
	require.Equal(t, 1, late)
}

func TestListenTyped(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	var got GameOver
	Listen(bus, func(e GameOver) { got = e })

	require.NoError(t, bus.Publish(GameOver{FinalScore: 12, NewHighScore: true}))
	require.Equal(t, 12, got.FinalScore)
	require.True(t, got.NewHighScore)
}
