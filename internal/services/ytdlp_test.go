package services

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/shared"
	tu "github.com/desertthunder/focus/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestYtDlp(t *testing.T) {
	ch := models.Channel{Name: "Theo Browne", ID: testChannelID}

	t.Run("FetchVideos builds the fallback invocation", func(t *testing.T) {
		runner := &tu.FakeRunner{Default: tu.RunResult{Stdout: jsonLines(
			`{"id":"v1","title":"First","upload_date":"20240501"}`,
			`{"id":"v2"}`,
		)}}
		y := NewYtDlp(runner)

		videos, err := y.FetchVideos(context.Background(), ch)
		require.NoError(t, err)
		require.Len(t, videos, 2)

		calls := runner.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "yt-dlp", calls[0].Name)
		assert.Equal(t, []string{
			"--flat-playlist", "--dump-json", "--playlist-end", "5", "--no-warnings", "--skip-download",
			"https://www.youtube.com/@TheoBrowne/videos",
		}, calls[0].Args)

		assert.Equal(t, "First", videos[0].Title)
		assert.Equal(t, "20240501", videos[0].Published)
		assert.Equal(t, "Theo Browne", videos[0].ChannelName)
		assert.Equal(t, "https://www.youtube.com/watch?v=v1", videos[0].Link)

		assert.Equal(t, "Unknown", videos[1].Title)
		assert.Equal(t, "N/A", videos[1].Published)
	})

	t.Run("FetchVideos skips malformed lines and records without ids", func(t *testing.T) {
		runner := &tu.FakeRunner{Default: tu.RunResult{Stdout: jsonLines(
			`{"id":"v1","title":"ok"}`,
			`{not json`,
			`{"title":"no id"}`,
			`{"id":"v2","title":"also ok"}`,
		)}}

		videos, err := NewYtDlp(runner).FetchVideos(context.Background(), ch)
		require.NoError(t, err)
		require.Len(t, videos, 2)
		assert.Equal(t, "v2", videos[1].VideoID)
	})

	t.Run("FetchVideos with empty output is empty, not an error", func(t *testing.T) {
		runner := &tu.FakeRunner{}
		videos, err := NewYtDlp(runner).FetchVideos(context.Background(), ch)
		assert.NoError(t, err)
		assert.Empty(t, videos)
	})

	t.Run("entirely malformed output", func(t *testing.T) {
		runner := &tu.FakeRunner{Default: tu.RunResult{Stdout: "garbage\nmore garbage\n"}}
		_, err := NewYtDlp(runner).FetchVideos(context.Background(), ch)
		assert.ErrorIs(t, err, shared.ErrMalformedOutput)
	})

	t.Run("timeout", func(t *testing.T) {
		runner := &tu.FakeRunner{Default: tu.RunResult{Block: true}}
		y := NewYtDlp(runner)
		y.Timeout = 20 * time.Millisecond

		start := time.Now()
		_, err := y.FetchVideos(context.Background(), ch)
		assert.ErrorIs(t, err, shared.ErrToolTimeout)
		assert.Less(t, time.Since(start), time.Second)

		te, ok := IsToolError(err)
		require.True(t, ok)
		assert.Equal(t, "yt-dlp", te.Tool)
	})

	t.Run("stderr classification", func(t *testing.T) {
		tc := []struct {
			name   string
			stderr string
			want   error
		}{
			{name: "private", stderr: "ERROR: [youtube] abc: Private video. Sign in", want: shared.ErrContentUnavailable},
			{name: "missing channel", stderr: "ERROR: This channel does not exist.", want: shared.ErrContentUnavailable},
			{name: "other", stderr: "ERROR: Unable to download webpage", want: shared.ErrToolFailed},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				runner := &tu.FakeRunner{Default: tu.RunResult{Stderr: tt.stderr, Err: errors.New("exit status 1")}}
				_, err := NewYtDlp(runner).FetchVideos(context.Background(), ch)
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})

	t.Run("missing executable", func(t *testing.T) {
		runner := &tu.FakeRunner{Default: tu.RunResult{Err: &exec.Error{Name: "yt-dlp", Err: exec.ErrNotFound}}}
		_, err := NewYtDlp(runner).FetchVideos(context.Background(), ch)
		assert.ErrorIs(t, err, shared.ErrToolNotInstalled)
	})

	t.Run("LookupChannelID takes the first valid id", func(t *testing.T) {
		runner := &tu.FakeRunner{Default: tu.RunResult{Stdout: jsonLines(
			`{"id":"v1","channel_id":"not-an-id"}`,
			`{"id":"v2","playlist_channel_id":"`+testChannelID+`"}`,
		)}}

		id, err := NewYtDlp(runner).LookupChannelID(context.Background(), "https://www.youtube.com/@fireship/videos")
		require.NoError(t, err)
		assert.Equal(t, testChannelID, id)
		assert.Equal(t, []string{
			"--flat-playlist", "--dump-json", "--playlist-end", "1", "--no-warnings",
			"https://www.youtube.com/@fireship/videos",
		}, runner.Calls()[0].Args)
	})

	t.Run("LookupChannelID without an id", func(t *testing.T) {
		runner := &tu.FakeRunner{Default: tu.RunResult{Stdout: `{"id":"v1"}`}}
		_, err := NewYtDlp(runner).LookupChannelID(context.Background(), "https://www.youtube.com/@x/videos")
		assert.ErrorIs(t, err, shared.ErrResolution)
	})
}

func TestChannelVideosURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/@fireship/videos", ChannelVideosURL("fireship"))
	assert.Equal(t, "https://www.youtube.com/@fireship/videos", ChannelVideosURL("@fireship"))
}
