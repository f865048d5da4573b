package shared

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// PlayerKind identifies how a video is played.
type PlayerKind int

const (
	PlayerBrowser PlayerKind = iota
	PlayerMPV
	PlayerVLC
	PlayerCustom
)

func (k PlayerKind) String() string {
	switch k {
	case PlayerMPV:
		return "mpv"
	case PlayerVLC:
		return "vlc"
	case PlayerCustom:
		return "custom"
	default:
		return "browser"
	}
}

var windowsVLCPaths = []string{
	`C:\Program Files\VideoLAN\VLC\vlc.exe`,
	`C:\Program Files (x86)\VideoLAN\VLC\vlc.exe`,
}

// Player launches videos with the best available program.
type Player struct {
	Kind   PlayerKind
	Path   string
	Runner CommandRunner
}

// AdFree reports whether playback avoids the browser.
func (p Player) AdFree() bool {
	return p.Kind != PlayerBrowser
}

// Name describes the player for display.
func (p Player) Name() string {
	if p.Kind == PlayerCustom {
		return filepath.Base(p.Path)
	}
	return p.Kind.String()
}

// Play blocks until the player exits. Browser playback returns as soon as the browser is opened.
func (p Player) Play(ctx context.Context, url string) error {
	switch p.Kind {
	case PlayerBrowser:
		return OpenBrowser(url)
	case PlayerVLC:
		return p.run(ctx, url, "--play-and-exit")
	default:
		return p.run(ctx, url)
	}
}

func (p Player) run(ctx context.Context, url string, extra ...string) error {
	runner := p.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	args := append([]string{url}, extra...)
	if _, stderr, err := runner.Run(ctx, p.Path, args...); err != nil {
		return fmt.Errorf("%s exited with error: %w: %s", p.Name(), err, stderr)
	}
	return nil
}

// DetectPlayer picks a player. Priority: configured path, mpv next to the executable, system mpv, vlc, browser.
func DetectPlayer(configured string) Player {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return Player{Kind: PlayerCustom, Path: configured}
		}
		if path, err := LookPath(configured); err == nil {
			return Player{Kind: PlayerCustom, Path: path}
		}
	}

	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		for _, name := range []string{"mpv", "mpv.exe"} {
			local := filepath.Join(dir, name)
			if info, err := os.Stat(local); err == nil && !info.IsDir() {
				return Player{Kind: PlayerMPV, Path: local}
			}
		}
	}

	if path, err := LookPath("mpv"); err == nil {
		return Player{Kind: PlayerMPV, Path: path}
	}

	if path, err := LookPath("vlc"); err == nil {
		return Player{Kind: PlayerVLC, Path: path}
	}
	if getRuntime() == "windows" {
		for _, p := range windowsVLCPaths {
			if _, err := os.Stat(p); err == nil {
				return Player{Kind: PlayerVLC, Path: p}
			}
		}
	}

	return Player{Kind: PlayerBrowser}
}
