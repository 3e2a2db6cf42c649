package config

const (
	FlagConfigPath       = "config-path"
	FlagConfigPrivateKey = "private-key"
	FlagConfigDbPass     = "db-pass"

	DBDialectMysql   = "mysql"
	DBDialectSqlite3 = "sqlite3"
)
