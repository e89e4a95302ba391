package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/subtune/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/subtune/internal/domain"
)

func testConfig(cfg domain.Config) (Config, *bytes.Buffer) {
	var logs bytes.Buffer
	config := DefaultConfig()
	config.UseMockAudio = true
	config.DisableMPRIS = true
	config.TestConfigRepository = memory.NewConfigRepository(cfg)
	config.TestLogOutput = &logs
	return config, &logs
}

func TestNewApplication(t *testing.T) {
	config, logs := testConfig(domain.DefaultConfig())

	app, err := NewApplication(config)
	require.NoError(t, err)
	require.NotNil(t, app)

	// Verify all services were created
	assert.NotNil(t, app.Session())
	assert.NotNil(t, app.eventBus)
	assert.NotNil(t, app.sink)
	assert.Nil(t, app.remote)
	assert.Nil(t, app.nowPlaying)
	assert.Equal(t, "memory", app.ConfigPath())
	assert.Contains(t, logs.String(), "initializing application")

	app.Shutdown()
	assert.Contains(t, logs.String(), "application shutdown complete")
}

func TestNewApplication_LogsPlaybackEvents(t *testing.T) {
	config, logs := testConfig(domain.DefaultConfig())
	config.LogLevel = slog.LevelDebug

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	app.eventBus.Publish(domain.NewTrackCompletedEvent(domain.Track{ID: "s1", Title: "Song"}))
	app.eventBus.Publish(domain.NewQueueChangedEvent(3))

	assert.Contains(t, logs.String(), "track completed")
	assert.Contains(t, logs.String(), "track_id=s1")
	assert.Contains(t, logs.String(), "queue changed")
	assert.Contains(t, logs.String(), "length=3")
}

func TestNewApplication_Notifications(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Notifications = true
	config, _ := testConfig(cfg)

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	assert.NotNil(t, app.nowPlaying)
}

func TestNewApplication_Headless(t *testing.T) {
	config, _ := testConfig(domain.DefaultConfig())
	config.Headless = true

	app, err := NewApplication(config)
	require.NoError(t, err)
	defer app.Shutdown()

	assert.Nil(t, app.Session())
	assert.Nil(t, app.sink)
	assert.Nil(t, app.eventBus)
	assert.Error(t, app.Run(context.Background()))

	_, err = app.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	config, _ := testConfig(domain.Config{})

	_, err := NewApplication(config)
	var cfgErr *domain.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestApplicationLifecycle(t *testing.T) {
	config, logs := testConfig(domain.DefaultConfig())

	app, err := NewApplication(config)
	require.NoError(t, err)

	// Run would normally block, but we're not calling it in test

	app.Shutdown()
	// Shutdown again should not panic or log twice
	app.Shutdown()
	assert.Equal(t, 1, strings.Count(logs.String(), "application shutdown complete"))
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "SubTune", config.AppName)
	assert.False(t, config.UseMockAudio)
	assert.False(t, config.DisableMPRIS)
	assert.Empty(t, config.ConfigPath)
}

func TestWarnIfNeedsEdit(t *testing.T) {
	var out bytes.Buffer

	printed := WarnIfNeedsEdit(domain.DefaultConfig(), "/tmp/subtune/config.json", strings.NewReader("\n"), &out)
	assert.True(t, printed)
	assert.Contains(t, out.String(), "/tmp/subtune/config.json")
	assert.NotContains(t, out.String(), "Press Enter", "only prompts on a terminal")

	out.Reset()
	cfg := domain.DefaultConfig()
	cfg.Username = "alice"
	assert.False(t, WarnIfNeedsEdit(cfg, "x", strings.NewReader(""), &out))
	assert.Empty(t, out.String())
}

func TestVersionInfo(t *testing.T) {
	v := VersionInfo{Version: "1.2.0", GitCommit: "abc", BuildTime: "today"}
	assert.Equal(t, "1.2.0", v.String())
	assert.Equal(t, "SubTune 1.2.0 (commit: abc, built: today)", v.FullString())

	v.GitTag = "v1.2.0"
	assert.Equal(t, "v1.2.0", v.String())
}
