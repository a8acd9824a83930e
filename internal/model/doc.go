package model

// Package model defines domain data structures used across the app: video
// metadata and chapters, feed entries, fetch tasks, and status enums.
