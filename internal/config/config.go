package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port      int
	JWTSecret string

	// LiteBans database. When Host and User are both set the service reads
	// punishments from the plugin's schema; otherwise it falls back to the
	// local JSON document.
	LitebansDriver string // mysql or postgres
	LitebansHost   string
	LitebansPort   int
	LitebansUser   string
	LitebansPass   string
	LitebansName   string
	LitebansPrefix string // empty = auto-detect from table names
	LitebansSSL    bool

	// Seed accounts. Admin is always ensured; helper/moderator only when
	// their usernames are set.
	AdminUser  string
	AdminPass  string
	HelperUser string
	HelperPass string
	ModerUser  string
	ModerPass  string

	// Target game server for the status probe.
	MCHost string
	MCPort int

	DataFile   string
	UploadsDir string

	RedisURI       string   // optional; enables rate limiting
	AllowedOrigins []string // CORS; empty = allow any origin
}

func Load() *Config {
	return &Config{
		Port:      getEnvInt("PORT", 4000),
		JWTSecret: getEnv("JWT_SECRET", "change-this-secret"),

		LitebansDriver: strings.ToLower(getEnv("LITEBANS_DB_DRIVER", "mysql")),
		LitebansHost:   getEnv("LITEBANS_DB_HOST", ""),
		LitebansPort:   getEnvInt("LITEBANS_DB_PORT", 3306),
		LitebansUser:   getEnv("LITEBANS_DB_USER", ""),
		LitebansPass:   getEnv("LITEBANS_DB_PASS", ""),
		LitebansName:   getEnv("LITEBANS_DB_NAME", "litebans"),
		LitebansPrefix: os.Getenv("LITEBANS_TABLE_PREFIX"),
		LitebansSSL:    getEnvBool("LITEBANS_DB_SSL", false),

		AdminUser:  getEnv("ADMIN_USER", "admin"),
		AdminPass:  getEnv("ADMIN_PASS", "admin123"),
		HelperUser: getEnv("HELPER_USER", ""),
		HelperPass: getEnv("HELPER_PASS", ""),
		ModerUser:  getEnv("MODER_USER", ""),
		ModerPass:  getEnv("MODER_PASS", ""),

		MCHost: getEnv("MC_HOST", "bytemc.uz"),
		MCPort: getEnvInt("MC_PORT", 25565),

		DataFile:   getEnv("DATA_FILE", "server/data.json"),
		UploadsDir: getEnv("UPLOADS_DIR", "public/uploads"),

		RedisURI:       getEnv("REDIS_URI", ""),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// UseLitebans reports whether the relational backend is configured.
func (c *Config) UseLitebans() bool {
	return c.LitebansHost != "" && c.LitebansUser != ""
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.EqualFold(strings.TrimSpace(value), "true")
	}
	return defaultValue
}
