package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends in "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getEnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(getEnvInt("RATE_LIMIT_GENERATE_PER_HOUR", 30)),
	}
}

// DefaultEndpointConfigs returns the endpoint tiers. generatePerHour caps LLM-backed
// generation per client.
func DefaultEndpointConfigs(generatePerHour int) []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: LLM calls and headless Chrome
		{Path: "/api/generate-resume", Method: "POST", Limit: generatePerHour, Window: time.Hour, Burst: 3},
		{Path: "/api/generate-resume-v2", Method: "POST", Limit: generatePerHour, Window: time.Hour, Burst: 3},
		{Path: "/api/resume-pdf", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},

		// Tier 2: credential checks
		{Path: "/api/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/register", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/api/password", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 3},

		// Tier 3: profile and résumé writes
		{Path: "/api/work-experiences", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/work-experiences/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/work-experiences/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/education", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/education/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/education/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/skills", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/projects", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/resumes", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/profile", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},

		// Reads use the default limit; GET /api/health is unlimited (see MatchEndpoint).
	}
}

func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
