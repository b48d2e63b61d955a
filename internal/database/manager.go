package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// Manager owns a database connection, runs migrations and data
// initialization against it, and reports its health.
type Manager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Reconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) *HealthStatus
	DB() *bun.DB
	SQLDB() *sql.DB
	RunMigrations(ctx context.Context) error
	InitData(ctx context.Context) error
	Stats() *DBStats
	SetLogger(logger Logger)
}

type manager struct {
	config          *Config
	db              *bun.DB
	sqlDB           *sql.DB
	logger          Logger
	mu              sync.RWMutex
	connected       bool
	lastError       error
	reconnectTries  int
	stopHealthCheck chan struct{}
	healthCheckOn   bool
}

// NewManager returns a Manager for the given configuration. A nil config
// gets embedded-SQLite defaults.
func NewManager(config *Config) Manager {
	if config == nil {
		config = &Config{Connection: *DefaultConnectionConfig()}
	}
	return &manager{
		config: config,
		logger: nopLogger{},
	}
}

func (m *manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected && m.db != nil {
		return nil
	}

	var err error
	m.sqlDB, m.db, err = m.createConnection()
	if err != nil {
		m.lastError = err
		return fmt.Errorf("create database connection: %w", err)
	}

	m.configureConnectionPool()

	ctxTimeout, cancel := context.WithTimeout(ctx, m.config.Connection.ConnectTimeout)
	defer cancel()

	if err := m.db.PingContext(ctxTimeout); err != nil {
		m.lastError = err
		return fmt.Errorf("database connection test failed: %w", err)
	}

	if isSQLiteType(m.config.Connection.Type) {
		// Enforced per connection; the pool is pinned to one connection
		// for SQLite so this covers every query.
		if _, err := m.db.ExecContext(ctxTimeout, "PRAGMA foreign_keys = ON"); err != nil {
			m.lastError = err
			return fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	m.connected = true
	m.lastError = nil
	m.reconnectTries = 0

	if m.config.Connection.HealthCheckInterval > 0 {
		m.startHealthCheck()
	}

	m.logger.Info("Database connected", "type", m.config.Connection.Type, "dbname", m.config.Connection.DBName)
	return nil
}

func isSQLiteType(t string) bool {
	return t == "sqlite" || t == "sqlite3" || t == ""
}

func (m *manager) createConnection() (*sql.DB, *bun.DB, error) {
	var sqlDB *sql.DB
	var db *bun.DB
	var err error

	conn := &m.config.Connection
	if conn.ConnectTimeout <= 0 {
		conn.ConnectTimeout = 30 * time.Second
	}

	switch conn.Type {
	case "mysql":
		sqlDB, db, err = m.createMySQLConnection()
	case "postgres", "postgresql":
		sqlDB, db, err = m.createPostgreSQLConnection()
	case "sqlite", "sqlite3", "":
		sqlDB, db, err = m.createSQLiteConnection()
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", conn.Type)
	}

	if err != nil {
		return nil, nil, err
	}

	if conn.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
		db.AddQueryHook(NewQueryHook("STOREKEEPER_SQL_LOG"))
	}

	if conn.SlowQueryTime > 0 {
		db.AddQueryHook(&slowQueryHook{
			slowTime: conn.SlowQueryTime,
			logger:   m.logger,
		})
	}

	return sqlDB, db, nil
}

func (m *manager) createMySQLConnection() (*sql.DB, *bun.DB, error) {
	conn := &m.config.Connection
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
		conn.Username,
		conn.Password,
		conn.Host,
		conn.Port,
		conn.DBName,
		conn.ConnectTimeout,
		conn.ReadTimeout,
		conn.WriteTimeout,
	)

	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, err
	}

	return sqlDB, bun.NewDB(sqlDB, mysqldialect.New()), nil
}

func (m *manager) createPostgreSQLConnection() (*sql.DB, *bun.DB, error) {
	conn := &m.config.Connection
	sslMode := conn.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		conn.Username,
		conn.Password,
		conn.Host,
		conn.Port,
		conn.DBName,
		sslMode,
		int(conn.ConnectTimeout.Seconds()),
	)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}

	return sqlDB, bun.NewDB(sqlDB, pgdialect.New()), nil
}

func (m *manager) createSQLiteConnection() (*sql.DB, *bun.DB, error) {
	dsn := m.config.Connection.DBName
	if dsn == "" {
		dsn = "./storekeeper.db"
	}

	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, nil, err
	}

	return sqlDB, bun.NewDB(sqlDB, sqlitedialect.New()), nil
}

func (m *manager) configureConnectionPool() {
	if m.sqlDB == nil {
		return
	}

	conn := &m.config.Connection
	if isSQLiteType(conn.Type) {
		// A single pooled connection keeps :memory: databases alive and
		// keeps the foreign_keys pragma in effect.
		m.sqlDB.SetMaxOpenConns(1)
		m.sqlDB.SetConnMaxLifetime(0)
		m.sqlDB.SetConnMaxIdleTime(0)
		return
	}

	m.sqlDB.SetMaxIdleConns(conn.MaxIdleConns)
	m.sqlDB.SetMaxOpenConns(conn.MaxOpenConns)
	m.sqlDB.SetConnMaxLifetime(conn.ConnMaxLifetime)
	m.sqlDB.SetConnMaxIdleTime(conn.ConnMaxIdleTime)
}

func (m *manager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.healthCheckOn {
		close(m.stopHealthCheck)
		m.healthCheckOn = false
	}

	if m.db == nil {
		return nil
	}

	err := m.db.Close()
	m.db = nil
	m.sqlDB = nil
	m.connected = false

	if err != nil {
		m.logger.Error("Failed to close database connection", "error", err)
	} else {
		m.logger.Info("Database connection closed")
	}

	return err
}

func (m *manager) Reconnect(ctx context.Context) error {
	m.logger.Info("Attempting to reconnect to the database")

	if err := m.Disconnect(); err != nil {
		m.logger.Warn("Error disconnecting existing connection", "error", err)
	}

	return m.Connect(ctx)
}

func (m *manager) Ping(ctx context.Context) error {
	m.mu.RLock()
	db := m.db
	m.mu.RUnlock()

	if db == nil {
		return fmt.Errorf("database not connected")
	}

	return db.PingContext(ctx)
}

func (m *manager) DB() *bun.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

func (m *manager) SQLDB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sqlDB
}

func (m *manager) HealthCheck(ctx context.Context) *HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	status := &HealthStatus{
		LastCheckTime: start,
		Connected:     m.connected,
	}

	if m.db == nil {
		status.Healthy = false
		status.LastError = "database not initialized"
		return status
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	err := m.db.PingContext(ctxTimeout)
	status.ResponseTime = time.Since(start)

	if err != nil {
		status.Healthy = false
		status.Connected = false
		status.LastError = err.Error()
		m.lastError = err
	} else {
		status.Healthy = true
		status.Connected = true
		m.lastError = nil
	}

	if m.sqlDB != nil {
		stats := m.sqlDB.Stats()
		status.ActiveConns = stats.InUse
		status.IdleConns = stats.Idle
		status.MaxOpenConns = stats.MaxOpenConnections
	}

	return status
}

// startHealthCheck launches the background health loop. Callers hold m.mu.
// Disconnect stops the loop by closing the stop channel, so a later
// Connect or Reconnect starts a fresh one.
func (m *manager) startHealthCheck() {
	if m.healthCheckOn {
		return
	}
	m.healthCheckOn = true
	m.stopHealthCheck = make(chan struct{})
	stop := m.stopHealthCheck

	go func() {
		ticker := time.NewTicker(m.config.Connection.HealthCheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
				status := m.HealthCheck(ctx)
				cancel()
				if !status.Healthy && m.config.Connection.EnableReconnect {
					m.handleReconnect()
				}

			case <-stop:
				return
			}
		}
	}()
}

func (m *manager) handleReconnect() {
	if m.reconnectTries >= m.config.Connection.MaxReconnectTries {
		m.logger.Error("Max reconnect attempts reached, stopping", "tries", m.reconnectTries)
		return
	}

	m.reconnectTries++
	m.logger.Info("Starting database reconnect", "try", m.reconnectTries)

	time.Sleep(m.config.Connection.ReconnectInterval)

	ctx, cancel := context.WithTimeout(context.Background(), m.config.Connection.ConnectTimeout)
	defer cancel()

	if err := m.Reconnect(ctx); err != nil {
		m.logger.Error("Reconnect failed", "error", err, "try", m.reconnectTries)
	} else {
		m.reconnectTries = 0
		m.logger.Info("Reconnect succeeded")
	}
}

func (m *manager) Stats() *DBStats {
	m.mu.RLock()
	sqlDB := m.sqlDB
	m.mu.RUnlock()

	if sqlDB == nil {
		return &DBStats{}
	}

	stats := sqlDB.Stats()
	return &DBStats{
		MaxOpenConns:      stats.MaxOpenConnections,
		OpenConns:         stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration,
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxIdleTimeClosed: stats.MaxIdleTimeClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
	}
}

func (m *manager) RunMigrations(ctx context.Context) error {
	db := m.DB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	mm := NewMigrationManager(db, m.config, m.logger)
	return mm.RunMigrations(ctx)
}

func (m *manager) InitData(ctx context.Context) error {
	db := m.DB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	env := m.config.Init.Environment
	if env == "" {
		env = "prod"
	}
	sqlManager := NewSQLInitManager(db, env, m.logger)
	if m.config.Init.Filepath != "" {
		sqlManager.SetSQLRootPath(m.config.Init.Filepath)
	}
	return sqlManager.ExecuteInitialization(ctx)
}

func (m *manager) SetLogger(logger Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if logger != nil {
		m.logger = logger
	}
}
