package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Filename limits
const (
	MaxFileNameBytes = 200
	ReplacementRune  = '_'
	FallbackFileName = "Untitled"
)

// ReservedFileNameChars are rejected by at least one supported filesystem
const ReservedFileNameChars = `/\<>:"|?*`

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dirPath)
	}
	return nil
}

// SanitizeFileName turns an arbitrary title into a single safe path element.
// Separators, reserved and control characters become '_', leading dots and
// trailing dots/spaces are trimmed, and the result is capped at MaxFileNameBytes.
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == utf8.RuneError, r == 0:
			b.WriteRune(ReplacementRune)
		case unicode.IsControl(r):
			b.WriteRune(ReplacementRune)
		case strings.ContainsRune(ReservedFileNameChars, r):
			b.WriteRune(ReplacementRune)
		default:
			b.WriteRune(r)
		}
	}

	clean := strings.TrimLeft(b.String(), ". ")
	clean = strings.TrimRight(clean, ". ")
	clean = truncateBytes(clean, MaxFileNameBytes)
	clean = strings.TrimRight(clean, ". ")
	if clean == "" {
		return FallbackFileName
	}
	return clean
}

// truncateBytes cuts s to at most n bytes without splitting a rune
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// WriteFile writes data to dir/name, creating dir when missing, and returns the path
func WriteFile(dir, name string, data []byte) (string, error) {
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
