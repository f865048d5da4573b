package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchStarted Phase = iota
	FetchChannel
	FetchCompleted
)

func (p Phase) String() string {
	switch p {
	case FetchStarted:
		return "fetch_started"
	case FetchChannel:
		return "fetch_channel"
	case FetchCompleted:
		return "fetch_completed"
	default:
		return ""
	}
}

func fetchStartedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchStarted,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Fetching latest videos from %d channels...", total),
	}
}

func channelFetchedUpdate(step, total int, res ChannelResult) ProgressUpdate {
	var msg string
	switch {
	case res.Source == SourceNone && res.Err() != nil:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.Channel.Name, DescribeError(res.Err()))
	case res.Source == SourceNone:
		msg = fmt.Sprintf("[%d/%d] ○ %s: no videos", step, total, res.Channel.Name)
	default:
		msg = fmt.Sprintf("[%d/%d] ✓ %s (%d via %s)", step, total, res.Channel.Name, len(res.Videos), res.Source)
	}
	return ProgressUpdate{
		Phase:   FetchChannel,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    res,
	}
}

func fetchCompletedUpdate(total int, result *FetchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCompleted,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Found %d videos", len(result.Videos)),
		Data:    result,
	}
}
