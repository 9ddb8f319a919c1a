package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
)

type Config interface {
	BasePath() string
	Backend() string
}

// LoadConfig reads .taskq.yaml from TASKQ_CONFIG_PATH, the working directory
// or the home directory. TASKQ_PATH and TASKQ_BACKEND override the file.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.taskq")
	viper.SetDefault("backend", BackendDiskv)
	viper.SetConfigName(".taskq") // .yaml is implicit
	viper.SetEnvPrefix("TASKQ")
	viper.AutomaticEnv()

	if override := os.Getenv("TASKQ_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	return &fileConfig{Path: path, Kind: viper.GetString("backend")}, nil
}

type fileConfig struct {
	Path string `json:"path"`
	Kind string `json:"backend"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Backend() string {
	return f.Kind
}
