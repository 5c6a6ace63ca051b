package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DBUrl               string
	SupabaseUrl         string
	SupabaseAnonKey     string
	SupabaseServiceKey  string
	SupabaseJWTSecret   string
	SupabaseProjectRef  string
	FrontendURL         string
	// SMTP Configuration (Brevo)
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	ReviewEmailTo string // Inbox notified when onboarding is submitted for review
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
	// Route table consumed by the access gate
	PublicRoutes       []string
	GateBypassPrefixes []string
	AdminPathPrefix    string
	LoginPath          string
	WorkspacePath      string
	DashboardPath      string
	AdminPath          string
}

func LoadConfig() (*Config, error) {
	// .env only takes effect locally; ignored in production when absent
	_ = godotenv.Load()

	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		DBUrl: getEnv("DATABASE_URL", ""),
		// Trim trailing slash to prevent double slashes (e.g. .co//auth)
		SupabaseUrl:        strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", getEnv("SUPABASE_KEY", "")),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseJWTSecret:  getEnv("SUPABASE_JWT_SECRET", getEnv("SUPABASE_JWT_KEY", "")),
		SupabaseProjectRef: getEnv("SUPABASE_PROJECT_REF", ""),
		FrontendURL:        strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		// SMTP Configuration
		SMTPHost:      getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@workspace-portal.io"),
		ReviewEmailTo: getEnv("REVIEW_EMAIL_TO", "onboarding@workspace-portal.io"),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		// Gate route table. Injected into the routing engine at construction
		// time so tests can vary it.
		PublicRoutes:       getEnvList("GATE_PUBLIC_ROUTES", []string{"/login", "/signup", "/verify", "/forgot-password", "/reset-password"}),
		GateBypassPrefixes: getEnvList("GATE_BYPASS_PREFIXES", []string{"/api/", "/v1/", "/_next/", "/static/", "/favicon.ico"}),
		AdminPathPrefix:    getEnv("GATE_ADMIN_PREFIX", "/admin"),
		LoginPath:          getEnv("GATE_LOGIN_PATH", "/login"),
		WorkspacePath:      getEnv("GATE_WORKSPACE_PATH", "/workspace"),
		DashboardPath:      getEnv("GATE_DASHBOARD_PATH", "/dashboard"),
		AdminPath:          getEnv("GATE_ADMIN_PATH", "/admin"),
	}

	// Basic validation to avoid confusing failures later
	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.SupabaseProjectRef == "" && cfg.SupabaseUrl != "" {
		// sb-<ref>-auth-token cookie name is derived from the project ref;
		// fall back to the first subdomain label of the Supabase URL
		host := strings.TrimPrefix(cfg.SupabaseUrl, "https://")
		host = strings.TrimPrefix(host, "http://")
		if i := strings.Index(host, "."); i > 0 {
			cfg.SupabaseProjectRef = host[:i]
		}
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList returns a comma-separated environment variable or fallback if not set
func getEnvList(key string, fallback []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return fallback
}
