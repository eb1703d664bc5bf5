package core

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setenv(t *testing.T, key, value string) {
	prev, had := os.LookupEnv(key)
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		conf, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "DEV", conf.Env)
		assert.True(t, conf.Debug)
		assert.False(t, conf.TestMode)
		assert.Equal(t, ":8000", conf.Server.Address)
		assert.Equal(t, 5*time.Second, conf.Server.ShutdownTimeout)
		assert.Equal(t, int64(10<<20), conf.Uploads.MaxSize)
		assert.False(t, conf.Attendance.StrictReferences)
		assert.True(t, conf.SeedDemoData)
		assert.NotEmpty(t, conf.WorkDir)
	})

	t.Run("env specific", func(t *testing.T) {
		conf, err := LoadConfig(" prod ")
		require.NoError(t, err)
		assert.Equal(t, "PROD", conf.Env)
		assert.False(t, conf.Debug)
		assert.False(t, conf.SeedDemoData)

		conf, err = LoadConfig("test")
		require.NoError(t, err)
		assert.True(t, conf.TestMode)
	})

	t.Run("env overrides", func(t *testing.T) {
		setenv(t, "QA_SERVER_ADDRESS", ":9000")
		setenv(t, "QA_SERVER_SHUTDOWNTIMEOUT", "2s")
		setenv(t, "QA_ATTENDANCE_STRICTREFERENCES", "true")

		conf, err := LoadConfig("QA")
		require.NoError(t, err)
		assert.Equal(t, ":9000", conf.Server.Address)
		assert.Equal(t, 2*time.Second, conf.Server.ShutdownTimeout)
		assert.True(t, conf.Attendance.StrictReferences)
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, ioutil.WriteFile(path, []byte(`
appName: Test School
users:
  - name: Administrator
    username: admin
    passwordHash: hash
    roles: ["admin:"]
`), 0o600))
		setenv(t, "QA_CONFIG_FILE", path)

		conf, err := LoadConfig("QA")
		require.NoError(t, err)
		assert.Equal(t, "Test School", conf.AppName)
		assert.Equal(t, []SeedUser{{Name: "Administrator", Username: "admin", PasswordHash: "hash", Roles: []string{"admin:"}}}, conf.Users)
	})

	t.Run("missing config file", func(t *testing.T) {
		setenv(t, "QA_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yml"))
		_, err := LoadConfig("QA")
		assert.Error(t, err)
	})
}
