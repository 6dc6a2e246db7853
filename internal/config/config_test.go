package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_SIGNING_SECRET", "secret")
	t.Setenv("JIRA_DOMAIN", "https://example.atlassian.net/")
	t.Setenv("JIRA_PROJECT_ID", "10000")
	t.Setenv("JIRA_PROJECT_KEY", "OPS")
	t.Setenv("JIRA_USER", "bot@example.com:token")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 10000, cfg.JiraProjectID)
	assert.Equal(t, "3", cfg.JiraIssueTypeID)
	assert.Equal(t, "5e684d1084dcfc0cf39137f0", cfg.JiraFallbackAccountID)
	assert.Equal(t, []string{"AWS", "GG", "Local", "Others"}, cfg.ProjectLabels)
	assert.Equal(t, "Others", cfg.DefaultProjectLabel)
	assert.Equal(t, 7, cfg.DueDateOffsetDays)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Empty(t, cfg.LockBucketName)
	assert.False(t, cfg.ProcessSync)

	user, pass := cfg.JiraCredentials()
	assert.Equal(t, "bot@example.com", user)
	assert.Equal(t, "token", pass)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SLACK_PORT", "8080")
	t.Setenv("PROJECT_LABELS", " Infra , ,Web")
	t.Setenv("LOCK_BUCKET_NAME", "locks")
	t.Setenv("LOCK_TTL", "1m")
	t.Setenv("PROCESS_SYNC", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"Infra", "Web"}, cfg.ProjectLabels)
	assert.Equal(t, "locks", cfg.LockBucketName)
	assert.Equal(t, time.Minute, cfg.LockTTL)
	assert.True(t, cfg.ProcessSync)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name          string
		key           string
		value         string
		errorContains string
	}{
		{"missing bot token", "SLACK_BOT_TOKEN", "", "SLACK_BOT_TOKEN"},
		{"missing domain", "JIRA_DOMAIN", "", "JIRA_DOMAIN"},
		{"non numeric project id", "JIRA_PROJECT_ID", "OPS", "must be numeric"},
		{"credential without separator", "JIRA_USER", "bot@example.com", "JIRA_USER"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}
}

func TestLoadReportsAllMissing(t *testing.T) {
	setRequired(t)
	t.Setenv("JIRA_USER", "")
	t.Setenv("JIRA_PROJECT_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, "missing required environment variables: JIRA_PROJECT_KEY, JIRA_USER", err.Error())
}
