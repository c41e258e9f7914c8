package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fbgraph/fbgraph/utils"
)

func writeDotEnv(t *testing.T, dir string, vars map[string]string) string {
	t.Helper()
	var content string
	for k, v := range vars {
		content += k + "=" + v + "\n"
	}
	p := filepath.Join(dir, ".env")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	return p
}

func TestLoadDotEnv_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	key := "FBGRAPH_TEST_EXPLICIT"
	p := writeDotEnv(t, tmp, map[string]string{key: "yup"})

	t.Setenv(key, "")
	os.Unsetenv(key)

	if err := utils.LoadDotEnv(p); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(key); got != "yup" {
		t.Fatalf("%s = %q, want %q", key, got, "yup")
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	tmp := t.TempDir()

	if err := utils.LoadDotEnv(filepath.Join(tmp, "nope.env")); err == nil {
		t.Fatalf("expected error for missing .env file")
	}
}

func TestGetEnv_SetAndDefault(t *testing.T) {
	key := "FBGRAPH_TEST_GETENV"
	t.Setenv(key, "set")
	if got := utils.GetEnv(key, "def"); got != "set" {
		t.Fatalf("GetEnv = %q, want %q", got, "set")
	}

	os.Unsetenv(key)
	if got := utils.GetEnv(key, "def"); got != "def" {
		t.Fatalf("GetEnv = %q, want default %q", got, "def")
	}
}
