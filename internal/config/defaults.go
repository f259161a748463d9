package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"disable_ci_mode":    false,
		"force_ci_mode":      false,
		"ci_message_timeout": 5000,
		"ci_throttle":        1000,
		"design_file":        "",
	}
}
