// Package models defines the domain entities shared by the focus packages.
//
// The package contains three groups of types:
//
// 1. Catalog entities persisted as JSON by the repositories package
//   - [Channel] : a curated channel with its canonical UC... identifier
//   - [Category] : a named, ordered list of channels
//   - [Catalog] : every category plus auxiliary top-level keys such as the gist id
//
// 2. Transient entities produced by a retrieval cycle
//   - [Video] : a recent upload from the feed or the yt-dlp fallback
//
// 3. History entities
//   - [WatchEntry] : an append-only record of a watched video
//   - [Stats] : dashboard figures derived from the watch history
//   - [LogEntry] : a line of the markdown Learning Log kept in a gist
package models
