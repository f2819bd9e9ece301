package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/tasklive/backend/internal/infrastructure/config"
	"github.com/tasklive/backend/internal/infrastructure/log"
)

// sqlitePragmas 每个 SQLite 连接打开后执行
// WAL 让实时查询的读取不阻塞写入；busy_timeout 避免外部进程写入时立即报 SQLITE_BUSY
var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL;",
	"PRAGMA busy_timeout=5000;",
	"PRAGMA synchronous=NORMAL;",
}

// OpenDB 按配置打开数据库连接
func OpenDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return openMySQL(cfg.DSN)
	case config.DriverSQLite, "":
		return OpenSQLite(cfg.DBPath())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenSQLite 打开（必要时创建）SQLite 数据库文件
func OpenSQLite(dbPath string) (*sql.DB, error) {
	// 确保目录存在
	if err := config.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 单写者模型：所有语句串行经过同一个连接
	db.SetMaxOpenConns(1)

	for _, pragma := range sqlitePragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.NewModuleLogger("storage", "db").Info("SQLite database opened", "path", dbPath)
	return db, nil
}

// openMySQL 打开 MySQL 连接池
func openMySQL(dsn string) (*sql.DB, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mysql dsn: %w", err)
	}
	// 让 RowsAffected 返回匹配行数而非实际修改行数，
	// 否则用相同内容更新已存在的任务会被误判为不存在
	mcfg.ClientFoundRows = true
	mcfg.ParseTime = true

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.NewModuleLogger("storage", "db").Info("MySQL database opened",
		"addr", mcfg.Addr,
		"db", mcfg.DBName,
	)
	return db, nil
}

// ProvideDB 提供数据库连接（由 App.Stop 关闭）
func ProvideDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	return OpenDB(cfg)
}
