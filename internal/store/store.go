// 包 store：PostgreSQL 中的场景数据表读写
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/tabular"

	_ "github.com/lib/pq"
)

// Store：数据库访问入口，持有连接池
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// 文档注释：读取全部场景数据行
// 约束：按导入顺序返回，保持与 JSON 文档一致的行序。
func (s *Store) LoadRows(ctx context.Context) ([]tabular.Row, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT code, scenario, value, dev_status FROM _tariff_rows ORDER BY ord, code, scenario")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []tabular.Row
	for rows.Next() {
		var r tabular.Row
		if err := rows.Scan(&r.Code, &r.Scenario, &r.Value, &r.DevStatus); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("db_rows_loaded", "count", len(out))
	return out, nil
}

// ImportResult：一次导入的统计
type ImportResult struct {
	Inserted int
	Skipped  int
}

// 文档注释：整批导入场景数据
// 背景：单事务 + 预编译语句；replace 为真时先清空旧数据。
// 约束：同一 (code, scenario) 重复出现时保留先出现者，与内存索引表的取首条规则一致；
// 导入结果写入 _tariff_imports。
func (s *Store) ImportRows(ctx context.Context, source string, rows []tabular.Row, replace bool) (ImportResult, error) {
	var res ImportResult
	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer tx.Rollback()

	if replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM _tariff_rows"); err != nil {
			return res, err
		}
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO _tariff_rows(code, scenario, value, dev_status, ord) VALUES($1,$2,$3,$4,$5) ON CONFLICT (code, scenario) DO NOTHING")
	if err != nil {
		return res, err
	}
	defer stmt.Close()
	for i, r := range rows {
		if r.Code == "" {
			res.Skipped++
			continue
		}
		ret, err := stmt.ExecContext(ctx, r.Code, r.Scenario, r.Value, r.DevStatus, i)
		if err != nil {
			return res, err
		}
		if n, _ := ret.RowsAffected(); n == 0 {
			res.Skipped++
			continue
		}
		res.Inserted++
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO _tariff_imports(source, row_count, skipped) VALUES($1,$2,$3)", source, res.Inserted, res.Skipped); err != nil {
		return res, err
	}
	if err := tx.Commit(); err != nil {
		return res, err
	}
	logger.L().Info("db_rows_imported", "source", source, "inserted", res.Inserted, "skipped", res.Skipped, "replace", replace, "duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

// LastImport：最近一次导入时间；无记录时返回零值
func (s *Store) LastImport(ctx context.Context) (time.Time, error) {
	var t sql.NullTime
	if err := s.db.QueryRowContext(ctx, "SELECT max(imported_at) FROM _tariff_imports").Scan(&t); err != nil {
		return time.Time{}, err
	}
	return t.Time, nil
}
