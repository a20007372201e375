package config

import (
	"os"
	"path/filepath"

	"github.com/rindelabs/rindestore/pkg/common"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Secret    string `yaml:"secret" json:"secret"`
	PublicUrl string `yaml:"public_url" json:"public_url"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system" json:"system"`
	Web      WebConfig  `yaml:"web" json:"web"`
	Database DBConfig   `yaml:"database" json:"database"`
	Logger   LogConfig  `yaml:"logger" json:"logger"`
	Smtp     SmtpConfig `yaml:"smtp" json:"smtp"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "rindestore",
		Location: "America/Mexico_City",
		Workdir:  "/var/rindestore",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-rinde-1816-store-0cc66ac1b4dd",
		PublicUrl: "http://127.0.0.1:1816",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "rindestore_v1",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/rindestore/rindestore.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvInt64Value(name string, f func(v int64)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := cast.ToInt64E(evalue)
	if err == nil {
		f(p)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := cast.ToBoolE(evalue)
	if err == nil {
		f(p)
	}
}

// LoadConfig reads configuration from cfile when it exists, falling back to
// built-in defaults, then applies RINDESTORE_* environment overrides.
func LoadConfig(cfile string) *AppConfig {
	if cfile == "" {
		cfile = "rindestore.yml"
	}
	defaults := *DefaultAppConfig
	cfg := &defaults
	if common.FileExists(cfile) {
		data, err := os.ReadFile(cfile)
		if err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("RINDESTORE_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("RINDESTORE_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvBoolValue("RINDESTORE_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })

	setEnvValue("RINDESTORE_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("RINDESTORE_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("RINDESTORE_WEB_PUBLIC_URL", func(v string) { cfg.Web.PublicUrl = v })
	setEnvInt64Value("RINDESTORE_WEB_PORT", func(v int64) { cfg.Web.Port = int(v) })

	setEnvValue("RINDESTORE_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("RINDESTORE_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("RINDESTORE_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("RINDESTORE_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("RINDESTORE_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvInt64Value("RINDESTORE_DB_PORT", func(v int64) { cfg.Database.Port = int(v) })

	setEnvValue("RINDESTORE_SMTP_HOST", func(v string) { cfg.Smtp.Host = v })
	setEnvInt64Value("RINDESTORE_SMTP_PORT", func(v int64) { cfg.Smtp.Port = int(v) })
	setEnvValue("RINDESTORE_SMTP_USERNAME", func(v string) { cfg.Smtp.Username = v })
	setEnvValue("RINDESTORE_SMTP_PASSWORD", func(v string) { cfg.Smtp.Password = v })
	setEnvValue("RINDESTORE_SMTP_FROM", func(v string) { cfg.Smtp.From = v })

	setEnvValue("RINDESTORE_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvBoolValue("RINDESTORE_LOGGER_FILE_ENABLE", func(v bool) { cfg.Logger.FileEnable = v })

	if cfg.Logger.Filename == "" {
		cfg.Logger.Filename = filepath.Join(cfg.System.Workdir, "rindestore.log")
	}

	return cfg
}
