package platform

// Package platform contains OS/platform integration and external tooling glue:
// filesystem helpers, filename sanitizing, yt-dlp JSON output parsing and
// playlist expansion via the ytdlp library.
