package database

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnvOverrides layers DB_* environment variables over the connection
// config, so credentials never have to live in the YAML file.
func ApplyEnvOverrides(conn *ConnectionConfig) {
	if typ := os.Getenv("DB_TYPE"); typ != "" {
		conn.Type = typ
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		conn.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			conn.Port = p
		}
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		conn.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		conn.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		conn.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		conn.SSLMode = sslmode
	}
	if maxIdle := os.Getenv("DB_MAX_IDLE_CONNS"); maxIdle != "" {
		if n, err := strconv.Atoi(maxIdle); err == nil {
			conn.MaxIdleConns = n
		}
	}
	if maxOpen := os.Getenv("DB_MAX_OPEN_CONNS"); maxOpen != "" {
		if n, err := strconv.Atoi(maxOpen); err == nil {
			conn.MaxOpenConns = n
		}
	}
	if maxLifetime := os.Getenv("DB_CONN_MAX_LIFETIME"); maxLifetime != "" {
		if d, err := time.ParseDuration(maxLifetime); err == nil {
			conn.ConnMaxLifetime = d
		}
	}
	if enableReconnect := os.Getenv("DB_ENABLE_RECONNECT"); enableReconnect != "" {
		if b, err := strconv.ParseBool(enableReconnect); err == nil {
			conn.EnableReconnect = b
		}
	}
	if enableQueryLog := os.Getenv("DB_ENABLE_QUERY_LOG"); enableQueryLog != "" {
		if b, err := strconv.ParseBool(enableQueryLog); err == nil {
			conn.EnableQueryLog = b
		}
	}
}
