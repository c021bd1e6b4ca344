package settings

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	KeyLogLevel = "loglevel"
	KeyProfile  = "profile"
	KeyLogFile  = "logfile"
)

// Init binds HOSTKIT_* environment variables and registers defaults.
func Init() {
	viper.SetEnvPrefix("hostkit")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeyProfile, "dev")
	viper.SetDefault(KeyLogFile, "")
}

func LogLevel() string {
	return viper.GetString(KeyLogLevel)
}

func Profile() string {
	return viper.GetString(KeyProfile)
}

// LogFile is where logs go; empty means stderr.
func LogFile() string {
	return viper.GetString(KeyLogFile)
}

// DefaultLogFile sets the log file used when HOSTKIT_LOGFILE is unset.
func DefaultLogFile(path string) {
	viper.SetDefault(KeyLogFile, path)
}
