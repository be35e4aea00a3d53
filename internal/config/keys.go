package config

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus represents the status of an API key.
type KeyStatus struct {
	Name   string       `json:"name"`
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "abc...xyz"
}

// CheckAPIKeys returns the status of all upstream API keys.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	return []KeyStatus{
		checkKey("FMP API Key", cfg.Providers.FMPKey, EnvPrefix+"_PROVIDERS_FMP_KEY", envFMPKey),
		checkKey("NewsAPI Key", cfg.Providers.NewsAPIKey, EnvPrefix+"_PROVIDERS_NEWSAPI_KEY", envNewsAPIKey),
	}
}

// checkKey checks if a key is set and where it came from.
func checkKey(name, value string, envVars ...string) KeyStatus {
	status := KeyStatus{
		Name:  name,
		IsSet: value != "",
	}

	switch {
	case value == "":
		status.Source = KeySourceNone
	case firstEnv(envVars...) == value:
		status.Source = KeySourceEnv
		status.Masked = maskKey(value)
	default:
		status.Source = KeySourceConfig
		status.Masked = maskKey(value)
	}

	return status
}

// maskKey masks an API key for display, showing only first 3 and last 3 chars.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
