package mocks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/scry-completion/internal/generation"
	"github.com/phrazzld/scry-completion/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockCompleter(t *testing.T) {
	t.Parallel()

	t.Run("replays script then repeats last step", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		completer := mocks.NewMockCompleter().On("m", mocks.Fail(boom), mocks.Reply("ok"))
		ctx := context.Background()

		_, err := completer.Complete(ctx, generation.CompletionRequest{Model: "m", Prompt: "p"})
		assert.ErrorIs(t, err, boom)

		for i := 0; i < 2; i++ {
			text, err := completer.Complete(ctx, generation.CompletionRequest{Model: "m", Prompt: "p"})
			require.NoError(t, err)
			assert.Equal(t, "ok", text)
		}

		assert.Equal(t, 3, completer.CallCount("m"))
		assert.Equal(t, []string{"m", "m", "m"}, completer.Models())
	})

	t.Run("unscripted model fails", func(t *testing.T) {
		t.Parallel()

		completer := mocks.NewMockCompleter()
		_, err := completer.Complete(context.Background(), generation.CompletionRequest{Model: "unknown"})
		assert.Error(t, err)
		assert.Equal(t, 1, completer.CallCount("unknown"))
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		completer := mocks.NewMockCompleter().On("m", mocks.Reply("ok"))
		_, err := completer.Complete(ctx, generation.CompletionRequest{Model: "m"})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("reset clears history", func(t *testing.T) {
		t.Parallel()

		completer := mocks.NewMockCompleter().On("m", mocks.Reply("ok"))
		_, _ = completer.Complete(context.Background(), generation.CompletionRequest{Model: "m"})
		completer.Reset()
		assert.Empty(t, completer.Calls())
		assert.Equal(t, 0, completer.CallCount("m"))
	})
}
