package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  host: db.internal
  user: facewell
  password: secret
  name: facewell
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 20, cfg.Database.MaxConns)
	assert.Equal(t, 1280, cfg.Camera.Width)
	assert.Equal(t, 720, cfg.Camera.Height)
	assert.Equal(t, 640, cfg.Camera.FallbackWidth)
	assert.Equal(t, 480, cfg.Camera.FallbackHeight)
	assert.Equal(t, 30, cfg.Camera.SampleRate)
	assert.Equal(t, 100, cfg.Camera.SampleSize)
	assert.Equal(t, 0.15, cfg.Camera.PresenceThreshold)
	assert.Equal(t, 1, cfg.Camera.DebounceTicks)
	assert.Equal(t, 92, cfg.Camera.JPEGQuality)
	assert.Equal(t, "https://oauth2.googleapis.com/tokeninfo", cfg.Auth.TokenInfoURL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  host: db.internal
`)

	t.Setenv("FW_SERVER_PORT", "7070")
	t.Setenv("FW_DB_HOST", "other.internal")
	t.Setenv("FW_NATS_URL", "nats://mq:4222")
	t.Setenv("FW_CAMERA_DEVICE", "/dev/video2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "other.internal", cfg.Database.Host)
	assert.Equal(t, "nats://mq:4222", cfg.NATS.URL)
	assert.Equal(t, "/dev/video2", cfg.Camera.Device)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "facewell", User: "fw", Password: "pw"}
	assert.Equal(t, "postgres://fw:pw@db:5432/facewell?sslmode=disable", d.DSN())
}
