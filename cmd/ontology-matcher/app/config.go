package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from flags, environment
// variables, .env files and the optional config file, in that precedence
// order.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool

	// Config file
	ConfigFile string

	// Matcher configuration
	CachePath    string
	DisableCache bool
	OntologyFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from all sources.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ONTOLOGY_MATCHER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".ontology-matcher")
		}
	}
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),

		ConfigFile: viper.ConfigFileUsed(),

		CachePath:    viper.GetString("cache_path"),
		DisableCache: viper.GetBool("disable_cache"),
		OntologyFile: viper.GetString("ontology_file"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}

	if config.CachePath == "" {
		config.CachePath = defaultCachePath()
	}
	return config, nil
}

// defaultCachePath puts the response cache under the user cache directory,
// falling back to the working directory when none is resolvable.
func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".ontology-matcher/cache.db"
	}
	return filepath.Join(dir, "ontology-matcher", "cache.db")
}

// loadEnvFiles loads environment variables from .env files. .env.local
// overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
