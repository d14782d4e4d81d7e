package camera

import (
	"fmt"
	"log/slog"

	"github.com/quasilyte/gdata"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/meltdown/config"
)

const settingsKey = "camera"

// SettingsFromConfig builds camera settings from the loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	c := cfg.Camera
	return Settings{
		MinSmooth:    float32(c.MinSmooth),
		MaxSmooth:    float32(c.MaxSmooth),
		MaxDistance:  float32(c.MaxDistance),
		SnapDistance: float32(c.SnapDistance),
		LeadFactor:   float32(c.LeadFactor),
		ShakeScale:   float32(c.ShakeScale),
	}
}

// Store persists camera settings in the per-user data directory.
// A nil Store is valid and never loads or saves anything.
type Store struct {
	m *gdata.Manager
}

// OpenStore opens the settings store for appName. An empty name disables persistence.
func OpenStore(appName string) (*Store, error) {
	if appName == "" {
		return nil, nil
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("opening settings store: %w", err)
	}
	return &Store{m: m}, nil
}

// Load returns saved settings, or ok=false when nothing was saved.
func (s *Store) Load() (settings Settings, ok bool, err error) {
	if s == nil || s.m == nil {
		return Settings{}, false, nil
	}
	data, err := s.m.LoadItem(settingsKey)
	if err != nil {
		return Settings{}, false, fmt.Errorf("loading camera settings: %w", err)
	}
	if len(data) == 0 {
		return Settings{}, false, nil
	}
	settings, err = decodeSettings(data)
	if err != nil {
		return Settings{}, false, err
	}
	return settings, true, nil
}

// Save writes settings to the store.
func (s *Store) Save(settings Settings) error {
	if s == nil || s.m == nil {
		return nil
	}
	data, err := encodeSettings(settings)
	if err != nil {
		return err
	}
	if err := s.m.SaveItem(settingsKey, data); err != nil {
		return fmt.Errorf("saving camera settings: %w", err)
	}
	return nil
}

// LoadInto overlays saved settings onto the camera, logging failures.
func (s *Store) LoadInto(c *Camera) {
	saved, ok, err := s.Load()
	if err != nil {
		slog.Warn("camera settings not loaded", "error", err)
		return
	}
	if ok {
		c.Settings = saved
		slog.Info("camera settings loaded")
	}
}

func encodeSettings(s Settings) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding camera settings: %w", err)
	}
	return data, nil
}

func decodeSettings(data []byte) (Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("decoding camera settings: %w", err)
	}
	return s, nil
}
