package config

import (
	"os"
	"path/filepath"
	"testing"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Cleanup(func() { SetConfigDir("") })
	return dir
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Assistant.SearchTool != defaultSearchTool {
		t.Fatalf("SearchTool = %q", cfg.Assistant.SearchTool)
	}
	if cfg.Widget.WideWidth != defaultWideWidth {
		t.Fatalf("WideWidth = %d", cfg.Widget.WideWidth)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTempConfigDir(t)

	cfg := DefaultConfig()
	cfg.Assistant.SocketURL = "wss://shop.example/assistant"
	cfg.Assistant.AssistantID = "asst_42"
	cfg.Commerce.CartURL = "https://shop.example/cart"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Assistant.SocketURL != cfg.Assistant.SocketURL {
		t.Fatalf("SocketURL = %q", loaded.Assistant.SocketURL)
	}
	if loaded.Commerce.CartURL != cfg.Commerce.CartURL {
		t.Fatalf("CartURL = %q", loaded.Commerce.CartURL)
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	dir := useTempConfigDir(t)

	partial := "assistant:\n  socketURL: wss://shop.example/assistant\n"
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(partial), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Assistant.SocketURL != "wss://shop.example/assistant" {
		t.Fatalf("SocketURL = %q", cfg.Assistant.SocketURL)
	}
	if cfg.Assistant.SearchTool != defaultSearchTool {
		t.Fatalf("SearchTool default not applied: %q", cfg.Assistant.SearchTool)
	}
	if cfg.Capture.Command != defaultCaptureCommand {
		t.Fatalf("Capture.Command default not applied: %q", cfg.Capture.Command)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := useTempConfigDir(t)

	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("{not yaml"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("malformed config accepted")
	}
}

func TestBuildLoggerConfigDefaultsEnabled(t *testing.T) {
	cfg := DefaultConfig()
	if lc := cfg.BuildLoggerConfig(); !lc.Enabled {
		t.Fatal("logging disabled by default")
	}

	off := false
	cfg.Logging.Enabled = &off
	if lc := cfg.BuildLoggerConfig(); lc.Enabled {
		t.Fatal("explicit disable ignored")
	}
}
