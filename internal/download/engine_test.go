package download

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastLine(t *testing.T) {
	assert.Equal(t, "ERROR: Video unavailable", lastLine("WARNING: x\nERROR: Video unavailable\n"))
	assert.Equal(t, "", lastLine(""))
}

func TestNewCommand_Flags(t *testing.T) {
	base := Request{
		URL:              "https://youtube.com/watch?v=abc",
		OutputDir:        "out",
		FilenameTemplate: "%(title)s.%(ext)s",
		Format:           "best[ext=mp4][height<=720]/best",
		ExtractorArgs:    "youtube:player_client=default",
	}

	tests := []struct {
		name         string
		notesOnly    bool
		infoJSON     bool
		subtitles    bool
		wantDump     bool
		wantPrint    bool
		wantInfoJSON bool
		wantSubs     bool
	}{
		{name: "download with side files", infoJSON: true, subtitles: true, wantPrint: true, wantInfoJSON: true, wantSubs: true},
		{name: "download without side files", wantPrint: true},
		{name: "notes only", notesOnly: true, wantDump: true},
		{name: "notes only ignores side files", notesOnly: true, infoJSON: true, subtitles: true, wantDump: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.NotesOnly = tt.notesOnly
			req.WriteInfoJSON = tt.infoJSON
			req.WriteSubtitles = tt.subtitles

			cfg := newCommand(req).GetFlagConfig()

			require.NotNil(t, cfg.VideoFormat.Format)
			assert.Equal(t, base.Format, *cfg.VideoFormat.Format)
			require.NotNil(t, cfg.Filesystem.Output)
			assert.Equal(t, filepath.Join("out", "%(title)s.%(ext)s"), *cfg.Filesystem.Output)
			require.NotNil(t, cfg.Extractor.ExtractorArgs)
			assert.Equal(t, "youtube:player_client=default", *cfg.Extractor.ExtractorArgs)

			assert.Equal(t, tt.wantDump, isSet(cfg.VerbositySimulation.DumpJSON), "dump json")
			assert.Equal(t, tt.wantPrint, isSet(cfg.VerbositySimulation.PrintJSON), "print json")
			assert.Equal(t, tt.wantInfoJSON, isSet(cfg.Filesystem.WriteInfoJSON), "write info json")
			assert.Equal(t, tt.wantSubs, isSet(cfg.Subtitle.WriteSubs), "write subs")
		})
	}
}

func TestNewCommand_AudioFormat(t *testing.T) {
	cfg := newCommand(Request{OutputDir: "out", FilenameTemplate: "%(title)s.%(ext)s", Format: "bestaudio/best"}).GetFlagConfig()

	require.NotNil(t, cfg.VideoFormat.Format)
	assert.Equal(t, "bestaudio/best", *cfg.VideoFormat.Format)
	assert.Nil(t, cfg.Extractor.ExtractorArgs)
}

func isSet(b *bool) bool {
	return b != nil && *b
}
