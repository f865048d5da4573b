package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/focus/internal/shared"
	tu "github.com/desertthunder/focus/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupURL(t *testing.T) {
	tc := []struct {
		in   string
		want string
	}{
		{in: "@fireship", want: "https://www.youtube.com/@fireship/videos"},
		{in: "fireship", want: "https://www.youtube.com/@fireship/videos"},
		{in: "https://www.youtube.com/@fireship", want: "https://www.youtube.com/@fireship/videos"},
		{in: "https://www.youtube.com/@fireship/featured", want: "https://www.youtube.com/@fireship/videos"},
		{in: "youtube.com/@fireship", want: "https://www.youtube.com/@fireship/videos"},
		{in: "https://www.youtube.com/c/Fireship", want: "https://www.youtube.com/c/Fireship"},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupURL(tt.in))
		})
	}
}

func TestResolver(t *testing.T) {
	okOutput := `{"id":"v1","channel_id":"` + testChannelID + `"}`

	t.Run("handle and URL forms produce the same lookup", func(t *testing.T) {
		runner := &tu.FakeRunner{Default: tu.RunResult{Stdout: okOutput}}
		r := NewResolver(NewYtDlp(runner), shared.NewLogger(&bytes.Buffer{}))

		for _, in := range []string{"@fireship", "https://www.youtube.com/@fireship"} {
			id, ok := r.Resolve(context.Background(), in)
			require.True(t, ok, in)
			assert.Equal(t, testChannelID, id)
		}

		calls := runner.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, calls[0].Args, calls[1].Args)
	})

	t.Run("literal ids skip the lookup", func(t *testing.T) {
		runner := &tu.FakeRunner{}
		r := NewResolver(NewYtDlp(runner), shared.NewLogger(&bytes.Buffer{}))

		id, ok := r.Resolve(context.Background(), testChannelID)
		assert.True(t, ok)
		assert.Equal(t, testChannelID, id)
		assert.Empty(t, runner.Calls())
	})

	t.Run("failures are absence and logged", func(t *testing.T) {
		var buf bytes.Buffer
		runner := &tu.FakeRunner{Default: tu.RunResult{Stderr: "ERROR: boom", Err: errors.New("exit status 1")}}
		r := NewResolver(NewYtDlp(runner), shared.NewLogger(&buf))

		id, ok := r.Resolve(context.Background(), "@nobody")
		assert.False(t, ok)
		assert.Empty(t, id)
		assert.Contains(t, buf.String(), "could not resolve channel")
		assert.Len(t, runner.Calls(), 1)
	})

	t.Run("empty input", func(t *testing.T) {
		r := NewResolver(NewYtDlp(&tu.FakeRunner{}), nil)
		_, ok := r.Resolve(context.Background(), "   ")
		assert.False(t, ok)
	})
}
