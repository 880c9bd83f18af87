package config

import (
	"os"
	"time"
)

type EnvVarName string // should be caps with underscore

const (
	knownHostsFile   EnvVarName = "KNOWN_HOSTS_EDIT_FILE"
	sshKeygenTimeout EnvVarName = "KNOWN_HOSTS_EDIT_SSH_KEYGEN_TIMEOUT"
	sentryDSN        EnvVarName = "KNOWN_HOSTS_EDIT_SENTRY_DSN"
)

const defaultKeygenWait = 10 * time.Second

type ConstantsConfig struct{}

func NewConstants() *ConstantsConfig {
	return &ConstantsConfig{}
}

// GetKnownHostsFile is the explicit known_hosts path, empty for the default.
func (c ConstantsConfig) GetKnownHostsFile() string {
	return getEnvOrDefault(knownHostsFile, "")
}

// GetSSHKeygenTimeout bounds every ssh-keygen invocation. Unparseable or
// non-positive values fall back to the default.
func (c ConstantsConfig) GetSSHKeygenTimeout() time.Duration {
	raw := getEnvOrDefault(sshKeygenTimeout, "")
	if raw == "" {
		return defaultKeygenWait
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultKeygenWait
	}
	return d
}

func (c ConstantsConfig) GetSentryDSN() string {
	return getEnvOrDefault(sentryDSN, "")
}

func getEnvOrDefault(envVarName EnvVarName, defaultVal string) string {
	val := os.Getenv(string(envVarName))
	if val == "" {
		return defaultVal
	}
	return val
}

var GlobalConfig = NewConstants()

type AllConfig interface {
	GetKnownHostsFile() string
	GetSSHKeygenTimeout() time.Duration
	GetSentryDSN() string
}

var _ AllConfig = ConstantsConfig{}
