package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Quality presets for downloads
type QualityPreset string

const (
	QualityVideo QualityPreset = "video"
	QualityAudio QualityPreset = "audio"
)

// yt-dlp format selectors; each selects exactly one stream, no merging
const (
	FormatVideo = "best[ext=mp4][height<=720]/best"
	FormatAudio = "bestaudio/best"
)

// Default values
const (
	DefaultOutputDirectory  = "."
	DefaultQualityPreset    = QualityVideo
	DefaultFilenameTemplate = "%(title)s.%(ext)s"
	DefaultIntervalSeconds  = 300
	DefaultRetries          = 0
	DefaultExtractorArgs    = "youtube:player_client=default"
	DefaultWriteInfoJSON    = true
	DefaultWriteSubtitles   = true
	DefaultExpandPlaylists  = true

	MaxRetries = 10
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("invalid configuration")

// FormatSelector returns the yt-dlp format selector for the preset
func (q QualityPreset) FormatSelector() string {
	if q == QualityAudio {
		return FormatAudio
	}
	return FormatVideo
}

// Valid reports whether q is a known preset
func (q QualityPreset) Valid() bool {
	return q == QualityVideo || q == QualityAudio
}

// Settings holds the tool configuration. Values come from defaults, then an
// optional YAML file, then command-line flags.
type Settings struct {
	OutputDirectory  string        `yaml:"output_directory"`
	Quality          QualityPreset `yaml:"quality"`
	FilenameTemplate string        `yaml:"filename_template"`
	WriteInfoJSON    bool          `yaml:"write_info_json"`
	WriteSubtitles   bool          `yaml:"write_subtitles"`
	ExpandPlaylists  bool          `yaml:"expand_playlists"`
	ExtractorArgs    string        `yaml:"extractor_args"`
	Retries          int           `yaml:"retries"`
	AutoInstall      bool          `yaml:"auto_install"`
	IntervalSeconds  int           `yaml:"interval"`
	StateDB          string        `yaml:"state_db"`
}

// Default returns settings with every default applied
func Default() *Settings {
	return &Settings{
		OutputDirectory:  DefaultOutputDirectory,
		Quality:          DefaultQualityPreset,
		FilenameTemplate: DefaultFilenameTemplate,
		WriteInfoJSON:    DefaultWriteInfoJSON,
		WriteSubtitles:   DefaultWriteSubtitles,
		ExpandPlaylists:  DefaultExpandPlaylists,
		ExtractorArgs:    DefaultExtractorArgs,
		Retries:          DefaultRetries,
		IntervalSeconds:  DefaultIntervalSeconds,
	}
}

// Load reads settings from a YAML file on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (*Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks value ranges and fills empty strings with defaults
func (s *Settings) Validate() error {
	if s.OutputDirectory == "" {
		s.OutputDirectory = DefaultOutputDirectory
	}
	if s.FilenameTemplate == "" {
		s.FilenameTemplate = DefaultFilenameTemplate
	}
	if s.Quality == "" {
		s.Quality = DefaultQualityPreset
	}
	if !s.Quality.Valid() {
		return fmt.Errorf("%w: unknown quality %q (want %q or %q)", ErrInvalid, s.Quality, QualityVideo, QualityAudio)
	}
	if s.IntervalSeconds < 1 {
		return fmt.Errorf("%w: interval must be at least 1 second, got %d", ErrInvalid, s.IntervalSeconds)
	}
	if s.Retries < 0 || s.Retries > MaxRetries {
		return fmt.Errorf("%w: retries must be between 0 and %d, got %d", ErrInvalid, MaxRetries, s.Retries)
	}
	return nil
}

// SetAudioOnly switches the quality preset to audio
func (s *Settings) SetAudioOnly(audio bool) {
	if audio {
		s.Quality = QualityAudio
	} else {
		s.Quality = QualityVideo
	}
}

// AudioOnly reports whether the audio preset is selected
func (s *Settings) AudioOnly() bool {
	return s.Quality == QualityAudio
}

// Interval returns the watch polling period
func (s *Settings) Interval() time.Duration {
	return time.Duration(s.IntervalSeconds) * time.Second
}
