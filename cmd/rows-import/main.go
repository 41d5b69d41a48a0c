// rows-import：将场景数据 JSON 文档导入 PostgreSQL（服务以 ROWS_FROM_DB=true 读取）
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/logger"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/migrate"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/store"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/tabular"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/utils"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()

	def := filepath.Join("assets", "data", "data.json")
	if v := os.Getenv("DATA_DIR"); v != "" {
		def = filepath.Join(v, "data.json")
	}
	path := flag.String("file", def, "data document to import")
	replace := flag.Bool("replace", true, "delete existing rows before import")
	flag.Parse()

	rows, err := tabular.Load(*path)
	if err != nil {
		l.Error("rows_parse_error", "file", *path, "err", err)
		os.Exit(1)
	}
	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	ctx := context.Background()
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}
	res, err := store.AttachDB(db).ImportRows(ctx, filepath.Base(*path), rows, *replace)
	if err != nil {
		l.Error("rows_import_error", "err", err)
		os.Exit(1)
	}
	l.Info("rows_import_done", "file", *path, "inserted", res.Inserted, "skipped", res.Skipped)
}
