package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	LedgerConfig  LedgerConfig  `json:"ledger_config"`
	ServerConfig  ServerConfig  `json:"server_config"`
	AuthConfig    AuthConfig    `json:"auth_config"`
	LogConfig     LogConfig     `json:"log_config"`
	AlertConfig   AlertConfig   `json:"alert_config"`
	MetricsConfig MetricsConfig `json:"metrics_config"`
	DBConfig      DBConfig      `json:"db_config"`
}

type LedgerConfig struct {
	RPCAddr         string `json:"rpc_addr"`
	ChainId         int64  `json:"chain_id"`
	ContractAddress string `json:"contract_address"`
	PrivateKey      string `json:"private_key"`
	GasLimit        uint64 `json:"gas_limit"`
	MonitorInterval uint64 `json:"monitor_interval"` // seconds between event log polls
	StartBlock      uint64 `json:"start_block"`
}

func (cfg *LedgerConfig) Validate() {
	if cfg.RPCAddr == "" {
		panic("rpc_addr should not be empty")
	}
	if cfg.ContractAddress == "" {
		panic("contract_address should not be empty")
	}
	if cfg.ChainId <= 0 {
		panic("chain_id should be larger than 0")
	}
}

type ServerConfig struct {
	Port           int      `json:"port"`
	AllowedOrigins []string `json:"allowed_origins"`
}

func (cfg *ServerConfig) Validate() {
	if cfg.Port <= 0 {
		panic("server port should be larger than 0")
	}
}

type AuthConfig struct {
	IdentityServiceAddr string `json:"identity_service_addr"`
	RequestTimeoutSec   int    `json:"request_timeout_sec"`
}

func (cfg *AuthConfig) Validate() {
	if cfg.IdentityServiceAddr == "" {
		panic("identity_service_addr should not be empty")
	}
}

type LogConfig struct {
	Level                        string `json:"level"`
	Filename                     string `json:"filename"`
	MaxFileSizeInMB              int    `json:"max_file_size_in_mb"`
	MaxBackupsOfLogFiles         int    `json:"max_backups_of_log_files"`
	MaxAgeToRetainLogFilesInDays int    `json:"max_age_to_retain_log_files_in_days"`
	UseConsoleLogger             bool   `json:"use_console_logger"`
	UseFileLogger                bool   `json:"use_file_logger"`
	Compress                     bool   `json:"compress"`
}

func (cfg *LogConfig) Validate() {
	if cfg.UseFileLogger {
		if cfg.Filename == "" {
			panic("filename should not be empty if use file logger")
		}
		if cfg.MaxFileSizeInMB <= 0 {
			panic("max_file_size_in_mb should be larger than 0 if use file logger")
		}
		if cfg.MaxBackupsOfLogFiles <= 0 {
			panic("max_backups_off_log_files should be larger than 0 if use file logger")
		}
	}
}

type DBConfig struct {
	Dialect      string `json:"dialect"`
	DBPath       string `json:"db_path"`
	Password     string `json:"password"`
	Username     string `json:"username"`
	MaxIdleConns int    `json:"max_idle_conns"`
	MaxOpenConns int    `json:"max_open_conns"`
	DebugMode    bool   `json:"debug_mode"`
}

func (cfg *DBConfig) Validate() {
	if cfg.Dialect != DBDialectMysql && cfg.Dialect != DBDialectSqlite3 {
		panic(fmt.Sprintf("only %s and %s supported", DBDialectMysql, DBDialectSqlite3))
	}
	if cfg.Dialect == DBDialectMysql && (cfg.Username == "" || cfg.DBPath == "") {
		panic("db config is not correct")
	}
}

type MetricsConfig struct {
	Port int `json:"port"`
}

type AlertConfig struct {
	Identity       string `json:"identity"`
	TelegramBotId  string `json:"telegram_bot_id"`
	TelegramChatId string `json:"telegram_chat_id"`
}

func (cfg *Config) Validate() {
	cfg.LedgerConfig.Validate()
	cfg.ServerConfig.Validate()
	cfg.AuthConfig.Validate()
	cfg.LogConfig.Validate()
	cfg.DBConfig.Validate()
}

func ParseConfigFromJson(content string) *Config {
	var config Config
	if err := json.Unmarshal([]byte(content), &config); err != nil {
		panic(err)
	}
	return &config
}

func ParseConfigFromFile(filePath string) *Config {
	bz, err := os.ReadFile(filePath)
	if err != nil {
		panic(err)
	}

	var config Config
	if err := json.Unmarshal(bz, &config); err != nil {
		panic(err)
	}

	config.Validate()

	return &config
}
