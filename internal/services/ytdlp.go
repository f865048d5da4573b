package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/shared"
)

const (
	defaultYtdlpPath     = "yt-dlp"
	defaultYtdlpTimeout  = 15 * time.Second
	defaultFallbackLimit = 5
	maxRecordSize        = 4 * 1024 * 1024
)

// unavailablePatterns are stderr fragments yt-dlp prints for private, removed or region-blocked targets.
var unavailablePatterns = []string{
	"private video",
	"video unavailable",
	"does not exist",
	"not available in your country",
	"blocked",
	"members-only",
	"http error 404",
}

// YtDlp runs the yt-dlp executable.
type YtDlp struct {
	// Path is the executable. Defaults to "yt-dlp".
	Path string

	// Timeout bounds every invocation. Defaults to 15 seconds.
	Timeout time.Duration

	// Limit caps the uploads listed by [YtDlp.FetchVideos]. Defaults to 5.
	Limit int

	Runner shared.CommandRunner
}

// NewYtDlp creates a yt-dlp client with the default path, timeout and limit.
func NewYtDlp(runner shared.CommandRunner) *YtDlp {
	if runner == nil {
		runner = shared.ExecRunner{}
	}
	return &YtDlp{
		Path:    defaultYtdlpPath,
		Timeout: defaultYtdlpTimeout,
		Limit:   defaultFallbackLimit,
		Runner:  runner,
	}
}

// ytdlpRecord is the subset of a --dump-json line that we read.
type ytdlpRecord struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	UploadDate        string `json:"upload_date"`
	ChannelID         string `json:"channel_id"`
	PlaylistChannelID string `json:"playlist_channel_id"`
}

// Installed reports whether the executable can be found.
func (y *YtDlp) Installed() bool {
	_, err := shared.LookPath(y.path())
	return err == nil
}

// LookupChannelID reads the channel id from the first upload listed on url.
func (y *YtDlp) LookupChannelID(ctx context.Context, url string) (string, error) {
	args := []string{"--flat-playlist", "--dump-json", "--playlist-end", "1", "--no-warnings", url}

	records, err := y.records(ctx, url, args)
	if err != nil {
		return "", err
	}

	for _, rec := range records {
		for _, id := range []string{rec.ChannelID, rec.PlaylistChannelID} {
			if models.IsValidChannelID(id) {
				return id, nil
			}
		}
	}
	return "", &ToolError{Tool: "yt-dlp", Target: url, Err: shared.ErrResolution}
}

// FetchVideos lists the most recent uploads of ch from its handle page.
//
// The channel name with spaces removed is used as the handle.
func (y *YtDlp) FetchVideos(ctx context.Context, ch models.Channel) ([]models.Video, error) {
	url := ChannelVideosURL(strings.ReplaceAll(ch.Name, " ", ""))
	args := []string{
		"--flat-playlist",
		"--dump-json",
		"--playlist-end", strconv.Itoa(y.limit()),
		"--no-warnings",
		"--skip-download",
		url,
	}

	records, err := y.records(ctx, url, args)
	if err != nil {
		if errors.Is(err, shared.ErrEmptyOutput) {
			return nil, nil
		}
		return nil, err
	}

	videos := make([]models.Video, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		videos = append(videos, recordToVideo(rec, ch.Name))
		if len(videos) == y.limit() {
			break
		}
	}
	return videos, nil
}

func recordToVideo(rec ytdlpRecord, channelName string) models.Video {
	title := rec.Title
	if title == "" {
		title = "Unknown"
	}
	published := rec.UploadDate
	if published == "" {
		published = "N/A"
	}
	return models.Video{
		Title:       title,
		Link:        models.WatchURL(rec.ID),
		ChannelName: channelName,
		Published:   published,
		VideoID:     rec.ID,
	}
}

// records runs yt-dlp and decodes its line-delimited JSON output.
func (y *YtDlp) records(ctx context.Context, target string, args []string) ([]ytdlpRecord, error) {
	stdout, err := y.run(ctx, target, args)
	if err != nil {
		return nil, err
	}

	records, skipped := parseRecords(stdout)
	if len(records) == 0 {
		if skipped > 0 {
			return nil, &ToolError{Tool: "yt-dlp", Target: target, Err: shared.ErrMalformedOutput}
		}
		return nil, &ToolError{Tool: "yt-dlp", Target: target, Err: shared.ErrEmptyOutput}
	}
	return records, nil
}

func (y *YtDlp) run(ctx context.Context, target string, args []string) ([]byte, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, y.timeout())
	defer cancel()

	stdout, stderr, err := y.runner().Run(cmdCtx, y.path(), args...)
	if err == nil {
		return stdout, nil
	}

	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
		return nil, &ToolError{Tool: "yt-dlp", Target: target, Err: shared.ErrToolTimeout}
	}
	if errors.Is(cmdCtx.Err(), context.Canceled) {
		return nil, &ToolError{Tool: "yt-dlp", Target: target, Err: context.Canceled}
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return nil, &ToolError{Tool: "yt-dlp", Target: target, Err: shared.ErrToolNotInstalled}
	}
	return nil, &ToolError{Tool: "yt-dlp", Target: target, Err: classifyStderr(stderr), Stderr: firstLine(stderr)}
}

func classifyStderr(stderr []byte) error {
	msg := strings.ToLower(string(stderr))
	for _, p := range unavailablePatterns {
		if strings.Contains(msg, p) {
			return shared.ErrContentUnavailable
		}
	}
	return shared.ErrToolFailed
}

// parseRecords decodes one JSON object per line and counts the lines it could not decode.
func parseRecords(stdout []byte) ([]ytdlpRecord, int) {
	var (
		records []ytdlpRecord
		skipped int
	)

	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec ytdlpRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if scanner.Err() != nil {
		skipped++
	}
	return records, skipped
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func (y *YtDlp) path() string {
	if y.Path != "" {
		return y.Path
	}
	return defaultYtdlpPath
}

func (y *YtDlp) timeout() time.Duration {
	if y.Timeout > 0 {
		return y.Timeout
	}
	return defaultYtdlpTimeout
}

func (y *YtDlp) limit() int {
	if y.Limit > 0 {
		return y.Limit
	}
	return defaultFallbackLimit
}

func (y *YtDlp) runner() shared.CommandRunner {
	if y.Runner != nil {
		return y.Runner
	}
	return shared.ExecRunner{}
}

// ChannelVideosURL returns the uploads tab for a handle, adding the @ prefix when missing.
func ChannelVideosURL(handle string) string {
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	return "https://www.youtube.com/" + handle + "/videos"
}
