// Package tasks retrieves recent videos for many channels at once with real-time progress reporting.
//
// # Video Retrieval
//
// [VideoEngine.FetchAll] runs one task per channel on a bounded pool (at most [shared.MaxWorkers]):
//
//  1. Primary: the channel RSS feed, capped at three entries
//  2. Fallback: yt-dlp against the channel handle page, capped at five entries, only when the
//     primary returned nothing or failed
//  3. Terminal: Success with at least one video, or Empty
//
// A failing or panicking channel never affects the others. Errors are logged as per-channel warnings
// and kept on the matching [ChannelResult]; FetchAll itself never fails.
//
// Results are merged in completion order by a single collector, so the merged list has no ordering
// guarantee across channels.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
