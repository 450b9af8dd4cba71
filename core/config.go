package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "GRADEBOOK"

type (
	StorageConfig struct {
		Driver string // csv (default), sqlite, postgres
		DSN    string
	}

	Config struct {
		Env      string // DEV (local; default), TEST, PROD
		Debug    bool
		TestMode bool
		LogMode  string

		DataDir    string
		ReportsDir string

		StrictWeights bool
		GPAScale      string // "70:5,60:4,..."; empty means the default scale

		Storage StorageConfig

		DefaultTeacherUsername string
		DefaultTeacherPassword string
	}
)

func newViper() *viper.Viper {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", false)
	conf.SetDefault("log_mode", "dev")
	conf.SetDefault("data_dir", "data")
	conf.SetDefault("reports_dir", "reports")
	conf.SetDefault("strict_weights", false)
	conf.SetDefault("gpa_scale", "")
	conf.SetDefault("storage.driver", "csv")
	conf.SetDefault("storage.dsn", "")
	conf.SetDefault("teacher.username", "teacher")
	conf.SetDefault("teacher.password", "teacher")

	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	conf.AutomaticEnv()
	return conf
}

// NewConfig loads the configuration from (in order of precedence) the environment,
// `config/.env.<env>`, `config/gradebook.{yaml,json,toml}` and the defaults.
func NewConfig(workDir string) (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	conf := newViper()
	conf.SetConfigName("gradebook")
	conf.AddConfigPath(filepath.Join(workDir, "config"))
	if err := conf.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	c := &Config{
		Env:                    env,
		Debug:                  conf.GetBool("debug"),
		TestMode:               env == "TEST",
		LogMode:                conf.GetString("log_mode"),
		DataDir:                conf.GetString("data_dir"),
		ReportsDir:             conf.GetString("reports_dir"),
		StrictWeights:          conf.GetBool("strict_weights"),
		GPAScale:               conf.GetString("gpa_scale"),
		DefaultTeacherUsername: CleanString(conf.GetString("teacher.username"), true /* lower */),
		DefaultTeacherPassword: conf.GetString("teacher.password"),
		Storage: StorageConfig{
			Driver: CleanString(conf.GetString("storage.driver"), true /* lower */),
			DSN:    conf.GetString("storage.dsn"),
		},
	}
	if !filepath.IsAbs(c.DataDir) {
		c.DataDir = filepath.Join(workDir, c.DataDir)
	}
	if !filepath.IsAbs(c.ReportsDir) {
		c.ReportsDir = filepath.Join(workDir, c.ReportsDir)
	}
	return c, nil
}
