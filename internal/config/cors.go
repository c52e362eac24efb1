package config

import "strings"

// CORSConfig defines which browser origins may call the API.  AllowedMethods
// are upper-cased.  MaxAge is the preflight cache lifetime in seconds.
type CORSConfig struct {
    AllowedOrigins []string
    AllowedMethods []string
    AllowedHeaders []string
    MaxAge         int
}

// LoadCORSConfig reads CORS_* environment variables.  Defaults allow any
// origin to POST JSON, which is what the mail-forwarding scripts need.
func LoadCORSConfig() CORSConfig {
    methods := parseList(envStr("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"))
    for i, m := range methods {
        methods[i] = strings.ToUpper(m)
    }
    return CORSConfig{
        AllowedOrigins: parseList(envStr("CORS_ALLOWED_ORIGINS", "*")),
        AllowedMethods: methods,
        AllowedHeaders: parseList(envStr("CORS_ALLOWED_HEADERS", "Content-Type,X-Request-ID")),
        MaxAge:         envInt("CORS_MAX_AGE", 600),
    }
}
