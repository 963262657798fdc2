package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDoors_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	doors := []DoorConfig{
		{Name: "LORD", Command: "/usr/bin/lord", Args: []string{"-n", "{NODE}"}},
		{Name: "BRE", Command: "/usr/bin/bre"},
	}
	data, _ := json.Marshal(doors)
	os.WriteFile(filepath.Join(tmpDir, "doors.json"), data, 0644)

	result, err := LoadDoors(filepath.Join(tmpDir, "doors.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 doors, got %d", len(result))
	}
	if result["LORD"].Command != "/usr/bin/lord" {
		t.Errorf("expected LORD command /usr/bin/lord, got %s", result["LORD"].Command)
	}
}

func TestLoadDoors_MissingFile(t *testing.T) {
	result, err := LoadDoors("/nonexistent/doors.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty map for missing file, got %d entries", len(result))
	}
}

func TestLoadDoors_DuplicateNames(t *testing.T) {
	tmpDir := t.TempDir()
	doors := []DoorConfig{
		{Name: "LORD", Command: "/usr/bin/lord"},
		{Name: "LORD", Command: "/usr/bin/lord2"},
	}
	data, _ := json.Marshal(doors)
	os.WriteFile(filepath.Join(tmpDir, "doors.json"), data, 0644)

	_, err := LoadDoors(filepath.Join(tmpDir, "doors.json"))
	if err == nil {
		t.Error("expected error for duplicate door names")
	}
}

func TestLoadDoors_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "doors.json"), []byte("not json"), 0644)

	_, err := LoadDoors(filepath.Join(tmpDir, "doors.json"))
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	result, err := LoadServerConfig(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Server.TelnetPort != 2323 {
		t.Errorf("expected default telnet port 2323, got %d", result.Server.TelnetPort)
	}
	if result.Server.BindAddress != "127.0.0.1" {
		t.Errorf("expected default bind address 127.0.0.1, got %s", result.Server.BindAddress)
	}
	if result.Server.MaxConnections != 50 {
		t.Errorf("expected default max connections 50, got %d", result.Server.MaxConnections)
	}
	if !result.Features.AllowAnonymous {
		t.Error("expected AllowAnonymous to default true")
	}
	if result.Features.MaxUsernameLength != 20 {
		t.Errorf("expected default max username length 20, got %d", result.Features.MaxUsernameLength)
	}
}

func TestLoadServerConfig_CustomValues(t *testing.T) {
	tmpDir := t.TempDir()
	raw := `{"server":{"telnet_port":3333,"max_connections":5},"bbs":{"name":"Test BBS"}}`
	os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(raw), 0644)

	result, err := LoadServerConfig(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Server.TelnetPort != 3333 {
		t.Errorf("expected telnet port 3333, got %d", result.Server.TelnetPort)
	}
	if result.Server.MaxConnections != 5 {
		t.Errorf("expected max connections 5, got %d", result.Server.MaxConnections)
	}
	if result.BBS.Name != "Test BBS" {
		t.Errorf("expected 'Test BBS', got %s", result.BBS.Name)
	}
}

func TestLoadServerConfig_PartialOverlayPreservesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	raw := `{"bbs":{"name":"Custom BBS"}}`
	os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(raw), 0644)

	result, err := LoadServerConfig(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BBS.Name != "Custom BBS" {
		t.Errorf("expected 'Custom BBS', got %s", result.BBS.Name)
	}
	if result.Timeouts.ConnectionSeconds != 300 {
		t.Errorf("expected default connection timeout 300, got %d", result.Timeouts.ConnectionSeconds)
	}
	if result.Timeouts.LoginSeconds != 120 {
		t.Errorf("expected default login timeout 120, got %d", result.Timeouts.LoginSeconds)
	}
}

func TestSaveServerConfigRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Default()
	cfg.BBS.Name = "Round Trip BBS"
	cfg.Server.TelnetPort = 4000

	if err := SaveServerConfig(tmpDir, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadServerConfig(tmpDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.BBS.Name != "Round Trip BBS" || loaded.Server.TelnetPort != 4000 {
		t.Fatalf("round-trip mismatch: %+v", loaded)
	}
}
