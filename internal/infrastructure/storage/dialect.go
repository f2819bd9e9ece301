package storage

import "github.com/tasklive/backend/internal/infrastructure/config"

// Dialect 不同数据库之间差异化的 SQL 片段
type Dialect struct {
	Name string
	// Schema 建表语句，按顺序执行，均需幂等
	Schema []string
	// SearchPredicate 区分大小写的字面量子串匹配，占位符为搜索串
	// 不使用 LIKE：SQLite 的 LIKE 对 ASCII 不区分大小写，且会把 % 和 _ 当作通配符
	SearchPredicate string
}

// SQLiteDialect SQLite 方言
var SQLiteDialect = Dialect{
	Name: config.DriverSQLite,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL,
			is_completed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_is_completed ON tasks(is_completed);`,
	},
	SearchPredicate: `instr(description, ?) > 0`,
}

// MySQLDialect MySQL 方言
var MySQLDialect = Dialect{
	Name: config.DriverMySQL,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			description TEXT NOT NULL,
			is_completed TINYINT(1) NOT NULL DEFAULT 0,
			INDEX idx_tasks_is_completed (is_completed)
		) DEFAULT CHARSET=utf8mb4;`,
	},
	SearchPredicate: `LOCATE(CAST(? AS BINARY), CAST(description AS BINARY)) > 0`,
}

// DialectFor 根据驱动名选择方言，未知驱动回退到 SQLite
func DialectFor(driver string) Dialect {
	if driver == config.DriverMySQL {
		return MySQLDialect
	}
	return SQLiteDialect
}

// ProvideDialect 提供当前配置使用的方言
func ProvideDialect(cfg *config.DatabaseConfig) Dialect {
	return DialectFor(cfg.Driver)
}
