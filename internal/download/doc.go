// Package download implements the fetch pipeline built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). It builds engine requests from the
// configured format policy, tracks each fetch as a task, propagates progress,
// translates engine failures into typed errors and hands metadata to the
// notes generator.
package download
