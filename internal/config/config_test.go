package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "DEV", "LANG_UI", "INVOICE_START", "LOG_LEVEL", "EXPORT_DIR", "DB_DRIVER", "DB_PORT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.App.Env != "development" || !cfg.App.Dev {
		t.Errorf("App = %+v, want development with Dev", cfg.App)
	}
	if cfg.App.InvoiceStart != 1 {
		t.Errorf("InvoiceStart = %d, want 1", cfg.App.InvoiceStart)
	}
	if cfg.Export.Dir != "exports" {
		t.Errorf("Export.Dir = %q, want exports", cfg.Export.Dir)
	}
	if cfg.Database.Enabled() {
		t.Errorf("Database.Enabled() = true with driver %q", cfg.Database.Driver)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DEV", "")
	t.Setenv("INVOICE_START", "42")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_SSLMODE", "")

	cfg := Load()
	if cfg.App.Dev {
		t.Errorf("Dev = true in production")
	}
	if cfg.App.InvoiceStart != 42 {
		t.Errorf("InvoiceStart = %d, want 42", cfg.App.InvoiceStart)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if !cfg.Database.Enabled() {
		t.Errorf("Database.Enabled() = false for postgres")
	}
	if got, want := cfg.Database.DSN(), "host=db port=5432 user=facturation password=facturation dbname=facturation sslmode=disable"; got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"yes", true},
		{"no", false},
		{"0", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("FLAG", tt.value)
			if got := getEnvBool("FLAG", !tt.want); got != tt.want {
				t.Errorf("getEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
