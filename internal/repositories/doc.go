// package repositories persists the catalog and the watch history as JSON documents.
//
// Each repository owns one file. Reads go straight to disk; writes replace the file atomically
// (temp file in the same directory, then rename). A mutex serializes read-modify-write cycles
// within the process.
//
// A malformed document is reported as [shared.ErrStorageCorrupt] in the log and replaced in memory
// by a default value. The damaged file is kept: the next write first moves it aside to
// "<path>.corrupt" so no data is silently lost.
package repositories
