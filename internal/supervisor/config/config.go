package config

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	viper "github.com/spf13/viper"

	"github.com/eagraf/shipmate/internal/supervisor/constants"
)

func loadEnv() error {
	err := viper.BindEnv("shipmate_path", "SHIPMATE_PATH")
	if err != nil {
		return err
	}
	viper.SetDefault("shipmate_path", "/var/lib/shipmate")

	if err := viper.BindEnv("poll_interval", "SHIPMATE_POLL_INTERVAL"); err != nil {
		return err
	}
	viper.SetDefault("poll_interval", "10s")

	if err := viper.BindEnv("local_mode", "SHIPMATE_LOCAL_MODE"); err != nil {
		return err
	}
	viper.SetDefault("local_mode", false)

	if err := viper.BindEnv("listen_address", "SHIPMATE_LISTEN_ADDRESS"); err != nil {
		return err
	}
	viper.SetDefault("listen_address", ":"+constants.DefaultPortDeviceAPI)

	if err := viper.BindEnv("log_level", "SHIPMATE_LOG_LEVEL"); err != nil {
		return err
	}
	viper.SetDefault("log_level", "info")

	return nil
}

// NewSupervisorConfig loads the supervisor config from the environment and,
// when present, the yaml config file under the shipmate path.
func NewSupervisorConfig() (*SupervisorConfig, error) {
	if err := loadEnv(); err != nil {
		return nil, err
	}

	viper.AddConfigPath(viper.GetString("shipmate_path"))
	viper.SetConfigType("yml")
	viper.SetConfigName("shipmate")

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional; env vars and defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config SupervisorConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	log.Debug().Msgf("Loaded supervisor config: %+v", config)
	return &config, nil
}

type SupervisorConfig struct{}

func (c *SupervisorConfig) ShipmatePath() string {
	return viper.GetString("shipmate_path")
}

func (c *SupervisorConfig) TargetStorePath() string {
	return filepath.Join(c.ShipmatePath(), "target.db")
}

func (c *SupervisorConfig) PollInterval() time.Duration {
	return viper.GetDuration("poll_interval")
}

func (c *SupervisorConfig) LocalMode() bool {
	return viper.GetBool("local_mode")
}

func (c *SupervisorConfig) ListenAddress() string {
	return viper.GetString("listen_address")
}

func (c *SupervisorConfig) LogLevel() string {
	return viper.GetString("log_level")
}
