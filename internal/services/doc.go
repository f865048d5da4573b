// Package services talks to the outside world: the YouTube RSS feed, the yt-dlp executable, and GitHub gists.
//
// # Feed
//
// [FeedClient] requests the public Atom feed of a channel and parses it with gofeed.
// Only channel ids are accepted; handles must be resolved first.
//
// # yt-dlp
//
// [YtDlp] runs the yt-dlp executable through a [shared.CommandRunner] with a bounded timeout.
// Output is one JSON record per line. Malformed lines are skipped.
// Failures are returned as [*ToolError] and unwrap to a shared sentinel:
//   - [shared.ErrToolTimeout] : the call exceeded its deadline
//   - [shared.ErrContentUnavailable] : stderr reports a private, removed or blocked target
//   - [shared.ErrToolNotInstalled] : the executable could not be started
//   - [shared.ErrToolFailed] : any other non-zero exit
//
// # Resolver
//
// [Resolver] turns a handle or channel URL into a channel id. Failures are logged and reported as absence.
//
// # Gists
//
// [GistClient] stores the Learning Log. [GHGistClient] drives the gh CLI and [APIGistClient] calls the GitHub REST API with a token.
package services
