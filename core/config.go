package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string `mapstructure:"-"`
		Build    string `mapstructure:"build"`
		Debug    bool   `mapstructure:"debug"`
		TestMode bool   `mapstructure:"testMode"`
		WorkDir  string `mapstructure:"-"`

		AppName                   string        `mapstructure:"appName"`
		SecretKey                 string        `mapstructure:"secretKey"`
		JWTExpirationDelta        time.Duration `mapstructure:"jwtExpirationDelta"`
		JWTRefreshExpirationDelta time.Duration `mapstructure:"jwtRefreshExpirationDelta"`

		Server     ServerConfig     `mapstructure:"server"`
		Uploads    UploadsConfig    `mapstructure:"uploads"`
		Attendance AttendanceConfig `mapstructure:"attendance"`

		RollbarToken     string `mapstructure:"rollbarToken"`
		SendgridApiKey   string `mapstructure:"sendgridApiKey"`
		DefaultFromEmail string `mapstructure:"defaultFromEmail"`

		SeedDemoData bool       `mapstructure:"seedDemoData"`
		Users        []SeedUser `mapstructure:"users"`
	}

	ServerConfig struct {
		Address         string        `mapstructure:"address"`
		Host            string        `mapstructure:"host"`
		DebugHost       string        `mapstructure:"debugHost"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
		DisableReqLogs  bool          `mapstructure:"disableReqLogs"`
	}

	UploadsConfig struct {
		Dir     string `mapstructure:"dir"`
		BaseURL string `mapstructure:"baseURL"`
		MaxSize int64  `mapstructure:"maxSize"` // bytes
	}

	AttendanceConfig struct {
		// StrictReferences rejects attendance for unknown courses or students.
		StrictReferences bool `mapstructure:"strictReferences"`
	}

	// SeedUser is an account created at startup. PasswordHash is a bcrypt hash (see `admin hashpassword`).
	SeedUser struct {
		Name         string   `mapstructure:"name" yaml:"name"`
		Username     string   `mapstructure:"username" yaml:"username"`
		Email        string   `mapstructure:"email" yaml:"email"`
		PasswordHash string   `mapstructure:"passwordHash" yaml:"passwordHash"`
		Roles        []string `mapstructure:"roles" yaml:"roles"`
	}
)

// NewConfig loads the configuration for the current ENV (DEV (local; default), TEST, QA, PROD).
func NewConfig() *Config {
	conf, err := LoadConfig(os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("core.NewConfig: %+v", err)
	}
	return conf
}

func LoadConfig(env string) (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("secretKey", "k2#v9-tz@9q!m1w)d$0x7=hp4+cj8(rb^s&e6u*na_lg%fy3")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.baseURL", "http://localhost:8000/uploads")
	v.SetDefault("uploads.maxSize", int64(10<<20))
	v.SetDefault("attendance.strictReferences", false)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("seedDemoData", true)

	env = strings.ToUpper(strings.TrimSpace(env))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "QA", "PROD":
		v.SetDefault("debug", false)
		v.SetDefault("seedDemoData", false)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	// optional config file; seed users can only be declared here
	if cfgFile := v.GetString("config_file"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", cfgFile)
		}
	}

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	conf.Env = env
	conf.WorkDir = wd
	return conf, nil
}
