package application

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	welding "weld-schedule/internal/welding/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("WELD_CONFIG", "")
	t.Setenv("WELD_START_BUTTWELD", "")
	t.Setenv("WELD_START_TAP", "")
	t.Setenv("WELD_START_SOCKETWELD", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Numbering != (NumberingConfig{ButtWeld: 11, Tap: 51, SocketWeld: 71}) {
		t.Fatalf("unexpected default numbering: %+v", cfg.Numbering)
	}
	if cfg.Export.Title != "Weld Schedule" {
		t.Fatalf("unexpected default title: %q", cfg.Export.Title)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weld.yaml")
	content := "numbering:\n  buttweld: 101\n  tap: 501\nexport:\n  project: Unit 300\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("WELD_CONFIG", path)
	t.Setenv("WELD_START_BUTTWELD", "")
	t.Setenv("WELD_START_TAP", "601")
	t.Setenv("WELD_START_SOCKETWELD", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Numbering.StartFor(welding.ClassButtWeld) != 101 {
		t.Fatalf("expected buttweld from file, got %d", cfg.Numbering.ButtWeld)
	}
	if cfg.Numbering.StartFor(welding.ClassTap) != 601 {
		t.Fatalf("expected tap from env, got %d", cfg.Numbering.Tap)
	}
	if cfg.Numbering.StartFor(welding.ClassSocketWeld) != 71 {
		t.Fatalf("expected socketweld default, got %d", cfg.Numbering.SocketWeld)
	}
	if cfg.Export.Project != "Unit 300" || cfg.Export.Title != "Weld Schedule" {
		t.Fatalf("unexpected export config: %+v", cfg.Export)
	}
}

func TestLoadConfig_RejectsNonPositiveStart(t *testing.T) {
	t.Setenv("WELD_CONFIG", "")
	t.Setenv("WELD_START_BUTTWELD", "0")
	t.Setenv("WELD_START_TAP", "")
	t.Setenv("WELD_START_SOCKETWELD", "")

	if _, err := LoadConfig(); !errors.Is(err, welding.ErrInvalidStartNumber) {
		t.Fatalf("expected ErrInvalidStartNumber, got %v", err)
	}
}
