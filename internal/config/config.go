package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment represents the running environment of the application
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
)

// Config holds all configuration for the application
type Config struct {
	// Environment is the current running environment (development, production, test)
	Environment Environment

	// Slack configuration
	SlackBotToken      string // Required: Slack bot user OAuth token
	SlackSigningSecret string // Required: used to verify request signatures
	Port               int    // HTTP port for the server binary

	// Jira configuration
	JiraDomain            string // Required: e.g. https://example.atlassian.net/
	JiraProjectID         int    // Required: numeric project id
	JiraProjectKey        string // Required: project key, e.g. OPS
	JiraUser              string // Required: basic auth credential "email:api-token"
	JiraIssueTypeID       string
	JiraFallbackAccountID string // used when the user search answers "unknown"

	// Request form
	ProjectLabels       []string
	DefaultProjectLabel string
	DueDateOffsetDays   int

	// Component lock
	LockBucketName string // empty means an in-process lock
	LockTTL        time.Duration

	// ProcessSync runs the submission pipeline before acknowledging Slack
	ProcessSync bool

	// Log level
	LogLevel string
}

const (
	defaultFallbackAccountID = "5e684d1084dcfc0cf39137f0"
	defaultProjectLabels     = "AWS,GG,Local,Others"
)

// Load creates a new Config instance from environment variables.
// Outside production, variables from .env.<APP_ENV> are loaded first when that file exists.
func Load() (*Config, error) {
	env := Environment(os.Getenv("APP_ENV"))
	if env == "" {
		env = Development
	}
	if env != Production {
		// the file is optional; real env vars always win
		_ = godotenv.Load(fmt.Sprintf(".env.%s", env))
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SLACK_PORT", 3000)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JIRA_ISSUE_TYPE_ID", "3")
	v.SetDefault("JIRA_FALLBACK_ACCOUNT_ID", defaultFallbackAccountID)
	v.SetDefault("PROJECT_LABELS", defaultProjectLabels)
	v.SetDefault("DEFAULT_PROJECT_LABEL", "Others")
	v.SetDefault("DUE_DATE_OFFSET_DAYS", 7)
	v.SetDefault("LOCK_TTL", "30s")
	v.SetDefault("PROCESS_SYNC", false)

	cfg := &Config{Environment: env}

	// Load required values
	var projectID string
	requiredVars := map[string]*string{
		"SLACK_BOT_TOKEN":      &cfg.SlackBotToken,
		"SLACK_SIGNING_SECRET": &cfg.SlackSigningSecret,

		"JIRA_DOMAIN":      &cfg.JiraDomain,
		"JIRA_PROJECT_ID":  &projectID,
		"JIRA_PROJECT_KEY": &cfg.JiraProjectKey,
		"JIRA_USER":        &cfg.JiraUser,
	}

	var missingVars []string
	for env, ptr := range requiredVars {
		*ptr = v.GetString(env)
		if *ptr == "" {
			missingVars = append(missingVars, env)
		}
	}

	if len(missingVars) > 0 {
		sort.Strings(missingVars)
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	id, err := strconv.Atoi(projectID)
	if err != nil {
		return nil, fmt.Errorf("JIRA_PROJECT_ID must be numeric: %v", err)
	}
	cfg.JiraProjectID = id

	if !strings.Contains(cfg.JiraUser, ":") {
		return nil, fmt.Errorf("JIRA_USER must have the form <email>:<api-token>")
	}

	cfg.Port = v.GetInt("SLACK_PORT")
	cfg.LogLevel = v.GetString("LOG_LEVEL")
	cfg.JiraIssueTypeID = v.GetString("JIRA_ISSUE_TYPE_ID")
	cfg.JiraFallbackAccountID = v.GetString("JIRA_FALLBACK_ACCOUNT_ID")
	cfg.ProjectLabels = splitLabels(v.GetString("PROJECT_LABELS"))
	cfg.DefaultProjectLabel = v.GetString("DEFAULT_PROJECT_LABEL")
	cfg.DueDateOffsetDays = v.GetInt("DUE_DATE_OFFSET_DAYS")
	cfg.LockBucketName = v.GetString("LOCK_BUCKET_NAME")
	cfg.LockTTL = v.GetDuration("LOCK_TTL")
	cfg.ProcessSync = v.GetBool("PROCESS_SYNC")

	if len(cfg.ProjectLabels) == 0 {
		return nil, fmt.Errorf("PROJECT_LABELS must list at least one label")
	}

	return cfg, nil
}

// JiraCredentials splits JiraUser into the basic auth username and password
func (c *Config) JiraCredentials() (string, string) {
	username, password, _ := strings.Cut(c.JiraUser, ":")
	return username, password
}

func splitLabels(raw string) []string {
	var labels []string
	for _, label := range strings.Split(raw, ",") {
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}
