package config

import (
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host        string `yaml:"host" json:"host"`
	Port        int    `yaml:"port" json:"port"`
	Secret      string `yaml:"secret" json:"secret"`
	AuthURL     string `yaml:"auth_url" json:"auth_url"`
	SessionDays int    `yaml:"session_days" json:"session_days"`
}

type DBConfig struct {
	Type   string `yaml:"type" json:"type"`
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Name   string `yaml:"name" json:"name"`
	User   string `yaml:"user" json:"user"`
	Passwd string `yaml:"passwd" json:"passwd"`
	Debug  bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// NotifyConfig configures the outbound notification channel. When SMTP is
// left empty every message is written to the log instead of being sent.
type NotifyConfig struct {
	SmtpHost    string `yaml:"smtp_host" json:"smtp_host"`
	SmtpPort    int    `yaml:"smtp_port" json:"smtp_port"`
	SmtpUser    string `yaml:"smtp_user" json:"smtp_user"`
	SmtpPasswd  string `yaml:"smtp_passwd" json:"smtp_passwd"`
	Destinatary string `yaml:"destinatary" json:"destinatary"`
}

// VerifyConfig controls phone verification gating. Purchase gating varies
// between product revisions, so it is a toggle rather than an invariant.
type VerifyConfig struct {
	RequireForPurchase bool   `yaml:"require_for_purchase" json:"require_for_purchase"`
	PhonePrefix        string `yaml:"phone_prefix" json:"phone_prefix"`
	PendingTTLMinutes  int    `yaml:"pending_ttl_minutes" json:"pending_ttl_minutes"`
}

type AppConfig struct {
	System   SystemConfig `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LogConfig    `yaml:"logger" json:"logger"`
	Notify   NotifyConfig `yaml:"notify" json:"notify"`
	Verify   VerifyConfig `yaml:"verify" json:"verify"`
}

var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "TiendaStore",
		Location: "America/Tegucigalpa",
		Workdir:  "/var/tiendastore",
		Debug:    true,
	},
	Web: WebConfig{
		Host:        "0.0.0.0",
		Port:        1816,
		Secret:      "9b6de5cc-tienda-1816-a2dd-523b4491",
		AuthURL:     "https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data",
		SessionDays: 7,
	},
	Database: DBConfig{
		Type:   "postgres",
		Host:   "127.0.0.1",
		Port:   5432,
		Name:   "tiendastore",
		User:   "postgres",
		Passwd: "myroot",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/tiendastore/tiendastore.log",
	},
	Notify: NotifyConfig{
		SmtpPort: 587,
	},
	Verify: VerifyConfig{
		RequireForPurchase: false,
		PhonePrefix:        "+504",
		PendingTTLMinutes:  30,
	},
}

func setEnvValue(name string, val *string) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

// LoadConfig reads configuration from the given yaml file, falling back to
// defaults, then applies TIENDA_* environment overrides.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("TIENDA_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("TIENDA_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("TIENDA_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("TIENDA_WEB_PORT", &cfg.Web.Port)
	setEnvValue("TIENDA_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("TIENDA_WEB_AUTH_URL", &cfg.Web.AuthURL)

	setEnvValue("TIENDA_DB_TYPE", &cfg.Database.Type)
	setEnvValue("TIENDA_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("TIENDA_DB_PORT", &cfg.Database.Port)
	setEnvValue("TIENDA_DB_NAME", &cfg.Database.Name)
	setEnvValue("TIENDA_DB_USER", &cfg.Database.User)
	setEnvValue("TIENDA_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("TIENDA_SMTP_HOST", &cfg.Notify.SmtpHost)
	setEnvIntValue("TIENDA_SMTP_PORT", &cfg.Notify.SmtpPort)
	setEnvValue("TIENDA_SMTP_USER", &cfg.Notify.SmtpUser)
	setEnvValue("TIENDA_SMTP_PWD", &cfg.Notify.SmtpPasswd)
	setEnvValue("TIENDA_NOTIFY_DEST", &cfg.Notify.Destinatary)

	setEnvBoolValue("TIENDA_VERIFY_PURCHASE", &cfg.Verify.RequireForPurchase)
	setEnvValue("TIENDA_PHONE_PREFIX", &cfg.Verify.PhonePrefix)

	return cfg
}
