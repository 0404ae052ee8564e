package core

import (
	"context"
	"encoding/json"

	"homagio/pkg/domain"
)

// SettingsValues returns the persisted user-facing settings. Missing or
// malformed stored settings degrade to defaults, never an error.
func (s *Service) SettingsValues(ctx context.Context) (Settings, error) {
	out := Settings{Appearance: domain.DefaultAppearance}
	err := s.run(ctx, "settings", func() error {
		raw, ok, err := s.kv.Get(ctx, s.settingsKey)
		if err != nil {
			s.logger.Warn("settings read failed, using defaults", "key", s.settingsKey, "error", err)
			return nil
		}
		if !ok {
			return nil
		}
		var stored Settings
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			s.logger.Warn("settings malformed, using defaults", "key", s.settingsKey, "error", err)
			return nil
		}
		if stored.Appearance != "" {
			out.Appearance = stored.Appearance
		}
		return nil
	})
	return out, err
}

// SaveSettings persists the settings under their own key. Write failures are
// logged and swallowed like dataset writes.
func (s *Service) SaveSettings(ctx context.Context, settings Settings) error {
	return s.run(ctx, "save_settings", func() error {
		if settings.Appearance == "" {
			settings.Appearance = domain.DefaultAppearance
		}
		raw, err := json.Marshal(settings)
		if err != nil {
			return err
		}
		if err := s.kv.Set(ctx, s.settingsKey, string(raw)); err != nil {
			s.logger.Warn("settings write failed, result not durable",
				"key", s.settingsKey, "driver", s.kv.Driver(), "error", err)
		}
		return nil
	})
}
