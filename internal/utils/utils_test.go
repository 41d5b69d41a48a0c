package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildPostgresDSNFromEnv(t *testing.T) {
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "")
	t.Setenv("PG_USER", "u")
	t.Setenv("PG_PASSWORD", "p")
	t.Setenv("PG_DB", "")
	t.Setenv("PG_SSLMODE", "")
	want := "postgres://u:p@db:5432/tariffs?sslmode=disable"
	if got := BuildPostgresDSNFromEnv(); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}

func TestOpenRedisDisabled(t *testing.T) {
	t.Setenv("REDIS_ENABLE", "")
	if rc := OpenRedisFromEnv(); rc != nil {
		t.Errorf("OpenRedisFromEnv() = %v, want nil when disabled", rc)
	}
}

func TestEnsureSelfSignedCert(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "certs", "server.crt")
	key := filepath.Join(dir, "certs", "server.key")
	if err := EnsureSelfSignedCert(cert, key, "tariffs.local"); err != nil {
		t.Fatalf("EnsureSelfSignedCert failed: %v", err)
	}
	st, err := os.Stat(cert)
	if err != nil {
		t.Fatalf("cert not written: %v", err)
	}
	// 已存在时不重写
	if err := EnsureSelfSignedCert(cert, key, "other"); err != nil {
		t.Fatal(err)
	}
	st2, _ := os.Stat(cert)
	if !st2.ModTime().Equal(st.ModTime()) {
		t.Errorf("existing cert was rewritten")
	}
}
