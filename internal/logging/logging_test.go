package logging

import (
	"bytes"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, log.LevelInfo, Level(false, false))
	assert.Equal(t, log.LevelDebug, Level(true, false))
	assert.Equal(t, log.LevelError, Level(false, true))
	assert.Equal(t, log.LevelError, Level(true, true))
}

func TestNew_QuietSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	helper := log.NewHelper(New(&buf, false, true))

	helper.Info("hidden")
	helper.Warn("hidden too")
	assert.Empty(t, buf.String())

	helper.Error("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "ts=")
}

func TestNew_VerboseShowsDebug(t *testing.T) {
	var buf bytes.Buffer
	helper := log.NewHelper(New(&buf, true, false))

	helper.Debug("details")
	assert.Contains(t, buf.String(), "details")

	buf.Reset()
	helper = log.NewHelper(New(&buf, false, false))
	helper.Debug("details")
	assert.Empty(t, buf.String())
}
