package migrate

import (
	"context"
	"database/sql"

	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
)

// 背景：首次运行自动创建场景数据表与导入记录表
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；(code, scenario) 唯一
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _tariff_rows (
            code TEXT NOT NULL,
            scenario INT NOT NULL,
            value TEXT NOT NULL DEFAULT '',
            dev_status TEXT NOT NULL DEFAULT '',
            ord INT NOT NULL DEFAULT 0,
            PRIMARY KEY (code, scenario)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_tariff_rows_ord ON _tariff_rows(ord)`,
		`CREATE TABLE IF NOT EXISTS _tariff_imports (
            id SERIAL PRIMARY KEY,
            source TEXT NOT NULL,
            row_count INT NOT NULL,
            skipped INT NOT NULL DEFAULT 0,
            imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
