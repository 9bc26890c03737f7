package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.TintColor != DefaultTintColor || s.PreviewWorkers != 8 || s.PreviewLimit != 24 || s.DefaultSize != 24 {
		t.Errorf("Load() = %+v, want defaults", s)
	}
	if s.Tint().Hex() != "#0a84ff" {
		t.Errorf("Tint() = %s", s.Tint().Hex())
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
log_file = "/tmp/iconbridge.log"
tint_color = "#ff0000"
preview_workers = 4
github_base_url = "https://github.example.com/api/v3/"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.LogFile != "/tmp/iconbridge.log" || s.PreviewWorkers != 4 || s.GitHubBaseURL != "https://github.example.com/api/v3/" {
		t.Errorf("Load() = %+v", s)
	}
	if s.PreviewLimit != DefaultPreviewLimit {
		t.Errorf("unset preview_limit = %d, want default", s.PreviewLimit)
	}
	if s.Tint().Hex() != "#ff0000" {
		t.Errorf("Tint() = %s", s.Tint().Hex())
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad toml", content: `tint_color = `, wantErr: "parsing settings"},
		{name: "bad colour", content: `tint_color = "blurple"`, wantErr: "tint_color"},
		{name: "negative workers", content: `preview_workers = -2`, wantErr: "preview_workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	s := Default()
	s.StorePath = "/var/lib/iconbridge/store.json"
	s.PreviewLimit = 12

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *s {
		t.Errorf("Load() = %+v, want %+v", loaded, s)
	}
}
