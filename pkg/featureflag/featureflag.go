package featureflag

import (
	"strings"

	"github.com/brevdev/known-hosts-edit/pkg/cmd/version"
	"github.com/spf13/viper"
)

func IsDev() bool {
	if viper.IsSet("feature.dev") {
		return viper.GetBool("feature.dev")
	}
	return strings.HasPrefix(version.Version, "dev")
}

func Debug() bool {
	return viper.GetBool("feature.debug")
}

// SetDebug lets a command line flag win over the config file and env.
func SetDebug(debug bool) {
	viper.Set("feature.debug", debug)
}

func LoadFeatureFlags(path string) error {
	viper.SetConfigName("config")
	viper.AddConfigPath("/etc/known-hosts-edit/")
	viper.AddConfigPath(path)
	viper.SetEnvPrefix("known_hosts_edit")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig() // do not nead to fail if can't find config file

	return nil
}
