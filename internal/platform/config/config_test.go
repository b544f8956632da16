package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolatedOptions points Load at an empty temp dir so the test never sees repo config files.
func isolatedOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()

	return Options{Dir: dir, DotEnv: filepath.Join(dir, ".env")}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// TestLoad_DefaultValues tests that hardcoded defaults are applied correctly.
func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := LoadWithOptions("", isolatedOptions(t))
	require.NoError(t, err)

	assert.Equal(t, "anime-digest", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DefaultMALBaseURL, cfg.MAL.BaseURL)
	assert.Equal(t, DefaultSlackBaseURL, cfg.Slack.BaseURL)
	assert.Equal(t, "social-anime", cfg.Slack.Channel)
	assert.Equal(t, DefaultSchedule, cfg.Schedule.Cron)
	assert.Equal(t, "airing", cfg.Digest.Ranking)
	assert.Equal(t, DefaultDigestLimit, cfg.Digest.Limit)
	assert.Equal(t, []string{"Check out these top airing anime!"}, cfg.Digest.Messages)
	assert.Empty(t, cfg.MAL.ClientID)
	assert.Empty(t, cfg.Slack.Token)
}

// TestLoad_DurationParsing tests that duration strings are parsed correctly.
func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := LoadWithOptions("", isolatedOptions(t))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 200*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.Equal(t, 5*time.Second, cfg.Client.Retry.MaxInterval)
	assert.Equal(t, 30*time.Second, cfg.Client.CircuitBreaker.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Client.Transport.IdleConnTimeout)
}

// TestLoad_EnvVarOverrides tests that APP_ variables override defaults using "__" for nesting.
func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_LOG__LEVEL", "warn")
	t.Setenv("APP_MAL__CLIENT_ID", "mal-from-app-env")
	t.Setenv("APP_DIGEST__LIMIT", "5")
	t.Setenv("APP_SERVER__ENABLED", "true")

	cfg, err := LoadWithOptions("", isolatedOptions(t))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "mal-from-app-env", cfg.MAL.ClientID)
	assert.Equal(t, 5, cfg.Digest.Limit)
	assert.True(t, cfg.Server.Enabled)
}

// TestLoad_LegacyEnvVars tests the plain variable names used by earlier deployments.
func TestLoad_LegacyEnvVars(t *testing.T) {
	t.Setenv("MAL_CLIENT_ID", "legacy-mal")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-legacy")
	t.Setenv("SLACK_CHANNEL", "anime-club")
	t.Setenv("DIGEST_SCHEDULE", "0 9 * * 1")

	cfg, err := LoadWithOptions("", isolatedOptions(t))
	require.NoError(t, err)

	assert.Equal(t, "legacy-mal", cfg.MAL.ClientID)
	assert.Equal(t, "xoxb-legacy", cfg.Slack.Token)
	assert.Equal(t, "anime-club", cfg.Slack.Channel)
	assert.Equal(t, "0 9 * * 1", cfg.Schedule.Cron)
}

// TestLoad_LegacyEnvWinsOverAppEnv documents the precedence between the two env styles.
func TestLoad_LegacyEnvWinsOverAppEnv(t *testing.T) {
	t.Setenv("APP_SLACK__TOKEN", "xoxb-app")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-legacy")

	cfg, err := LoadWithOptions("", isolatedOptions(t))
	require.NoError(t, err)

	assert.Equal(t, "xoxb-legacy", cfg.Slack.Token)
}

// TestLoad_ProfileFiles tests base and profile YAML layering.
func TestLoad_ProfileFiles(t *testing.T) {
	opts := isolatedOptions(t)
	writeFile(t, filepath.Join(opts.Dir, "base.yaml"), `
slack:
  channel: base-channel
digest:
  messages:
    - "Fresh picks!"
    - "This season's top shows"
  genres:
    - name: Comedy
      emoji_name: joy
  themes:
    - keywords: [cooking, chef]
      emoji_name: fork_and_knife
  ratings:
    G: baby
  catalogue: [tv, popcorn]
`)
	writeFile(t, filepath.Join(opts.Dir, "prod.yaml"), `
app:
  environment: prod
slack:
  channel: prod-channel
`)

	cfg, err := LoadWithOptions("prod", opts)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Environment)
	assert.Equal(t, "prod-channel", cfg.Slack.Channel)
	assert.Equal(t, []string{"Fresh picks!", "This season's top shows"}, cfg.Digest.Messages)
	require.Len(t, cfg.Digest.Genres, 1)
	assert.Equal(t, "Comedy", cfg.Digest.Genres[0].Name)
	assert.Equal(t, "joy", cfg.Digest.Genres[0].EmojiName)
	require.Len(t, cfg.Digest.Themes, 1)
	assert.Equal(t, []string{"cooking", "chef"}, cfg.Digest.Themes[0].Keywords)
	assert.Equal(t, map[string]string{"G": "baby"}, cfg.Digest.Ratings)
	assert.Equal(t, []string{"tv", "popcorn"}, cfg.Digest.Catalogue)
}

// TestLoad_NonExistentProfile tests that a missing profile file doesn't cause errors.
func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := LoadWithOptions("nonexistent", isolatedOptions(t))
	require.NoError(t, err)

	assert.Equal(t, "anime-digest", cfg.App.Name)
}

// TestLoad_InvalidYAML tests that parse failures surface as errors.
func TestLoad_InvalidYAML(t *testing.T) {
	opts := isolatedOptions(t)
	writeFile(t, filepath.Join(opts.Dir, "base.yaml"), "slack: [unterminated")

	_, err := LoadWithOptions("", opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

// TestLoad_DotEnv tests that a .env file fills unset variables only.
func TestLoad_DotEnv(t *testing.T) {
	opts := isolatedOptions(t)
	writeFile(t, opts.DotEnv, "MAL_CLIENT_ID=from-dotenv\nSLACK_BOT_TOKEN=xoxb-dotenv\n")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-process")
	t.Cleanup(func() { _ = os.Unsetenv("MAL_CLIENT_ID") })

	cfg, err := LoadWithOptions("", opts)
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.MAL.ClientID)
	assert.Equal(t, "xoxb-process", cfg.Slack.Token)
}

// TestDefaults tests that the defaults map contains expected values.
func TestDefaults(t *testing.T) {
	d := defaults()

	assert.Equal(t, "anime-digest", d["app.name"])
	assert.Equal(t, DefaultSchedule, d["schedule.cron"])
	assert.Equal(t, DefaultClientRetryMaxAttempts, d["client.retry.max_attempts"])
	assert.Equal(t, DefaultDigestLimit, d["digest.limit"])
	assert.NotContains(t, d, "mal.client_id", "credentials must never have defaults")
	assert.NotContains(t, d, "slack.token", "credentials must never have defaults")
}
