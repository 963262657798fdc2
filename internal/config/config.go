// Package config loads and hot-reloads the moonbase server configuration.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// TimeoutsConfig holds the three session timeout knobs from §6.
type TimeoutsConfig struct {
	ConnectionSeconds int `json:"connection_timeout"`
	IdleSeconds       int `json:"idle_timeout"`
	LoginSeconds      int `json:"login_timeout"`
}

// FeaturesConfig toggles optional subsystems and validation limits.
type FeaturesConfig struct {
	AllowAnonymous      bool `json:"allow_anonymous"`
	RequireRegistration bool `json:"require_registration"`
	MaxMessageLength    int  `json:"max_message_length"`
	MaxUsernameLength   int  `json:"max_username_length"`
	FileUploadsEnabled  bool `json:"file_uploads_enabled"`
	BulletinsEnabled    bool `json:"bulletins_enabled"`
}

// UIConfig controls rendering defaults; a full box-drawing menu renderer is
// OUT OF SCOPE, but the session controller reads these to resolve effective
// width/color and to pick the border glyphs and CP437 output transcoding
// (BoxStyle == "legacy") used by its own plain bordered-box renderer.
type UIConfig struct {
	BoxStyle        string `json:"box_style"`
	UseColors       bool   `json:"use_colors"`
	WidthMode       string `json:"width_mode"` // "auto" | "fixed"
	WidthValue      int    `json:"width_value"`
	ANSISupport     string `json:"ansi_support"`   // "auto" | "true" | "false"
	ColorSupport    string `json:"color_support"`  // "auto" | "true" | "false"
	AdaptiveLayout  bool   `json:"adaptive_layout"`
	WelcomePauseMs  int    `json:"welcome_pause_ms"`
}

// BrandingConfig is the BBS's displayed identity.
type BrandingConfig struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	SysopName   string `json:"sysop_name"`
	Location    string `json:"location"`
	Established string `json:"established"`
}

// ServerConfig is the full set of recognized options from §6.
type ServerConfig struct {
	Server struct {
		TelnetPort     int    `json:"telnet_port"`
		BindAddress    string `json:"bind_address"`
		MaxConnections int    `json:"max_connections"`
	} `json:"server"`
	Timeouts TimeoutsConfig `json:"timeouts"`
	Features FeaturesConfig `json:"features"`
	UI       UIConfig       `json:"ui"`
	BBS      BrandingConfig `json:"bbs"`
}

// Default returns the §6 defaults.
func Default() ServerConfig {
	var c ServerConfig
	c.Server.TelnetPort = 2323
	c.Server.BindAddress = "127.0.0.1"
	c.Server.MaxConnections = 50
	c.Timeouts.ConnectionSeconds = 300
	c.Timeouts.IdleSeconds = 1800
	c.Timeouts.LoginSeconds = 120
	c.Features.AllowAnonymous = true
	c.Features.RequireRegistration = false
	c.Features.MaxMessageLength = 4096
	c.Features.MaxUsernameLength = 20
	c.Features.FileUploadsEnabled = true
	c.Features.BulletinsEnabled = true
	c.UI.BoxStyle = "ascii"
	c.UI.UseColors = false
	c.UI.WidthMode = "auto"
	c.UI.WidthValue = 80
	c.UI.ANSISupport = "auto"
	c.UI.ColorSupport = "auto"
	c.UI.AdaptiveLayout = true
	c.UI.WelcomePauseMs = 1500
	c.BBS.Name = "moonbase"
	c.BBS.Tagline = "a quiet corner of the network"
	c.BBS.SysopName = "sysop"
	c.BBS.Location = "somewhere"
	c.BBS.Established = ""
	return c
}

// LoadServerConfig loads config.json from configPath, overlaying it onto
// Default(). A missing file is not an error: defaults are returned as-is.
// Grounded on the teacher's LoadServerConfig (default-then-unmarshal-overlay
// pattern), narrowed from vision3's FidoNet-era ServerConfig to §6's shape.
func LoadServerConfig(configPath string) (ServerConfig, error) {
	filePath := filepath.Join(configPath, "config.json")
	cfg := Default()

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("WARN: config.json not found at %s, using defaults", filePath)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file %s: %w", filePath, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config JSON from %s: %w", filePath, err)
	}
	log.Printf("INFO: loaded server configuration from %s", filePath)
	return cfg, nil
}

// SaveServerConfig writes cfg back to config.json in configPath.
func SaveServerConfig(configPath string, cfg ServerConfig) error {
	filePath := filepath.Join(configPath, "config.json")
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal server config: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("write config file %s: %w", filePath, err)
	}
	log.Printf("INFO: server configuration saved to %s", filePath)
	return nil
}

// DoorConfig describes one external program launchable from the Files menu,
// gated by Features.FileUploadsEnabled. Kept from the teacher's door-game
// configuration shape, trimmed to the fields internal/doors actually uses.
type DoorConfig struct {
	Name             string            `json:"name"`
	Command          string            `json:"command"`
	Args             []string          `json:"args"`
	WorkingDirectory string            `json:"working_directory,omitempty"`
	EnvironmentVars  map[string]string `json:"environment_variables,omitempty"`
}

// LoadDoors loads door definitions from filePath. A missing file yields an
// empty map: doors are optional.
func LoadDoors(filePath string) (map[string]DoorConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]DoorConfig), nil
		}
		return nil, fmt.Errorf("read doors file %s: %w", filePath, err)
	}

	var doors []DoorConfig
	if err := json.Unmarshal(data, &doors); err != nil {
		return nil, fmt.Errorf("unmarshal doors JSON from %s: %w", filePath, err)
	}

	doorMap := make(map[string]DoorConfig, len(doors))
	for _, d := range doors {
		if _, exists := doorMap[d.Name]; exists {
			return nil, fmt.Errorf("duplicate door name in %s: %s", filePath, d.Name)
		}
		doorMap[d.Name] = d
	}
	return doorMap, nil
}
