package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_BACKEND", "RABBITMQ_HOST", "MAIL_HOST", "NOTIFY_EMAIL", "BASIC_AUTH_USER", "BASIC_AUTH_PASS", "CALENDAR_TIMEZONE", "CORS_ORIGINS", "MAIL_PORT", "EXPORT_S3_BUCKET"} {
		t.Setenv(k, "")
	}

	cfg := Parse()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, "Europe/Paris", cfg.CalendarTimeZone)
	assert.Equal(t, 587, cfg.MailPort)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.QueueEnabled())
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.BasicAuthEnabled())
	assert.False(t, cfg.ArchiveEnabled())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Supabase")
	t.Setenv("MAIL_PORT", "2525")
	t.Setenv("CORS_ORIGINS", " https://a.fr , ,https://b.fr")
	t.Setenv("BASIC_AUTH_USER", "admin")
	t.Setenv("BASIC_AUTH_PASS", "secret")
	t.Setenv("RABBITMQ_HOST", "rabbit")

	cfg := Parse()

	assert.Equal(t, BackendSupabase, cfg.StoreBackend)
	assert.Equal(t, 2525, cfg.MailPort)
	assert.Equal(t, []string{"https://a.fr", "https://b.fr"}, cfg.CORSOrigins)
	assert.True(t, cfg.BasicAuthEnabled())
	assert.True(t, cfg.QueueEnabled())
}

func TestParse_BadIntFallsBack(t *testing.T) {
	t.Setenv("MAIL_PORT", "abc")
	assert.Equal(t, 587, Parse().MailPort)
}

func TestBasicAuthNeedsBothCredentials(t *testing.T) {
	assert.False(t, Config{BasicAuthUser: "admin"}.BasicAuthEnabled())
	assert.False(t, Config{BasicAuthPass: "x"}.BasicAuthEnabled())
}

func TestParse_SQLiteAndArchive(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/crm.db")
	t.Setenv("EXPORT_S3_BUCKET", "crm-exports")
	t.Setenv("EXPORT_S3_PATH_STYLE", "TRUE")

	cfg := Parse()

	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "/tmp/crm.db", cfg.SQLitePath)
	assert.True(t, cfg.ArchiveEnabled())
	assert.True(t, cfg.ExportS3PathStyle)
	assert.Equal(t, "eu-west-3", cfg.ExportS3Region)
}
