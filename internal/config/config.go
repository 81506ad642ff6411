package config

import (
	"github.com/ZarakiLancelot/NutriSnap/internal/envconfig"
)

type Config struct {
	Port         string `validate:"required"`
	GCPProjectID string
	SQLitePath   string `validate:"required"`
	SyncLimit    int    `validate:"gt=0"`
	Auth         AuthConfig
	Firestore    FirestoreConfig
	Gemini       GeminiConfig
}

type AuthConfig struct {
	Mode     string `validate:"required"`
	JWKSURL  string
	Audience string
	Issuer   string
}

type FirestoreConfig struct {
	EmulatorHost string
}

type GeminiConfig struct {
	APIKey    string
	Model     string
	UseVertex bool
	Project   string
	Location  string
}

func Load() (Config, error) {
	cfg := Config{
		Port:         envconfig.Get("PORT", "8080"),
		GCPProjectID: envconfig.Get("GCP_PROJECT_ID", ""),
		SQLitePath:   envconfig.Get("SQLITE_PATH", "nutrisnap.db"),
		SyncLimit:    envconfig.GetInt("HISTORY_SYNC_LIMIT", 20),
		Auth: AuthConfig{
			Mode:     envconfig.Get("AUTH_MODE", "google"),
			JWKSURL:  envconfig.Get("AUTH_JWKS_URL", ""),
			Audience: envconfig.Get("AUTH_AUDIENCE", ""),
			Issuer:   envconfig.Get("AUTH_ISSUER", ""),
		},
		Firestore: FirestoreConfig{
			EmulatorHost: envconfig.Get("FIRESTORE_EMULATOR_HOST", ""),
		},
		Gemini: GeminiConfig{
			APIKey:    envconfig.Get("GEMINI_API_KEY", ""),
			Model:     envconfig.Get("GEMINI_MODEL", ""),
			UseVertex: envconfig.GetBool("GEMINI_USE_VERTEX", false),
			Project:   envconfig.Get("GOOGLE_CLOUD_PROJECT", ""),
			Location:  envconfig.Get("GOOGLE_CLOUD_LOCATION", ""),
		},
	}
	return cfg, envconfig.Validate(cfg)
}
