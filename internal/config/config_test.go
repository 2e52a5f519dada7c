package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "docassist", cfg.App.Name)
	require.Equal(t, 8080, cfg.App.Port)
	require.Equal(t, "https://api.cerebras.ai/v1", cfg.LLM.BaseURL)
	require.Equal(t, "llama-4-scout-17b-16e-instruct", cfg.LLM.Model)
	require.Equal(t, 384, cfg.LLM.EmbeddingDim)
	require.Equal(t, "authdb", cfg.MySQL.DB)
	require.Equal(t, "auth.otp.email", cfg.RabbitMQ.OTPEmailQueue)
	require.Equal(t, "file_storage", cfg.Storage.Dir)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[app]
port = 9090

[llm]
model = "custom-model"

[storage]
dir = "/data/uploads"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.App.Port)
	require.Equal(t, "custom-model", cfg.LLM.Model)
	require.Equal(t, "/data/uploads", cfg.Storage.Dir)
	// Untouched sections keep their defaults.
	require.Equal(t, "0.0.0.0", cfg.App.Host)
	require.Equal(t, 3306, cfg.MySQL.Port)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[mysql]\nhost = \"from-file\"\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MYSQL_HOST", "from-env")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("EMAIL_USER", "bot@example.com")
	t.Setenv("QDRANT_URL", "http://qdrant:6333")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.MySQL.Host)
	require.Equal(t, "sk-test", cfg.LLM.APIKey)
	require.Equal(t, "bot@example.com", cfg.SMTP.Username)
	require.Equal(t, "http://qdrant:6333", cfg.Qdrant.URL)
}

func TestLoadBadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.MySQL.User = "app"
	cfg.MySQL.Password = "pw"
	cfg.MySQL.Host = "db"
	cfg.MySQL.Port = 3307
	cfg.MySQL.DB = "authdb"
	cfg.MySQL.Params = "parseTime=true"

	require.Equal(t, "app:pw@tcp(db:3307)/authdb?parseTime=true", cfg.MySQLDSN())
}

func TestHTTPAddr(t *testing.T) {
	cfg := defaultConfig()
	cfg.App.Host = "127.0.0.1"
	cfg.App.Port = 8088
	require.Equal(t, "127.0.0.1:8088", cfg.HTTPAddr())
}
