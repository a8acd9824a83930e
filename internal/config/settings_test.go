package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	s := Default()

	assert.Equal(t, DefaultOutputDirectory, s.OutputDirectory)
	assert.Equal(t, QualityVideo, s.Quality)
	assert.Equal(t, DefaultFilenameTemplate, s.FilenameTemplate)
	assert.True(t, s.WriteInfoJSON)
	assert.True(t, s.WriteSubtitles)
	assert.True(t, s.ExpandPlaylists)
	assert.Equal(t, 300*time.Second, s.Interval())
	assert.Empty(t, s.StateDB)
	assert.NoError(t, s.Validate())
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeSettings(t, `
output_directory: downloads
quality: audio
write_subtitles: false
interval: 60
retries: 2
state_db: seen.db
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "downloads", s.OutputDirectory)
	assert.True(t, s.AudioOnly())
	assert.False(t, s.WriteSubtitles)
	assert.True(t, s.WriteInfoJSON, "keys absent from the file keep their defaults")
	assert.Equal(t, time.Minute, s.Interval())
	assert.Equal(t, 2, s.Retries)
	assert.Equal(t, "seen.db", s.StateDB)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeSettings(t, "interval: [not a number"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		valid  bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"unknown quality", func(s *Settings) { s.Quality = "4k" }, false},
		{"zero interval", func(s *Settings) { s.IntervalSeconds = 0 }, false},
		{"negative retries", func(s *Settings) { s.Retries = -1 }, false},
		{"too many retries", func(s *Settings) { s.Retries = MaxRetries + 1 }, false},
		{"empty strings fall back", func(s *Settings) {
			s.OutputDirectory = ""
			s.FilenameTemplate = ""
			s.Quality = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			err := s.Validate()
			if tt.valid {
				require.NoError(t, err)
				assert.NotEmpty(t, s.OutputDirectory)
				assert.NotEmpty(t, s.FilenameTemplate)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestQualityPreset_FormatSelector(t *testing.T) {
	assert.Equal(t, "bestaudio/best", QualityAudio.FormatSelector())
	assert.Equal(t, "best[ext=mp4][height<=720]/best", QualityVideo.FormatSelector())
}

func TestSetAudioOnly(t *testing.T) {
	s := Default()
	s.SetAudioOnly(true)
	assert.Equal(t, QualityAudio, s.Quality)
	s.SetAudioOnly(false)
	assert.Equal(t, QualityVideo, s.Quality)
}
