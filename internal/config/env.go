package config

import (
    "log"
    "os"
    "strconv"
    "strings"
    "time"
)

func envStr(k, d string) string { if v := strings.TrimSpace(os.Getenv(k)); v != "" { return v }; return d }
func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" { return d }
    switch v {
    case "1","true","TRUE","True","yes","YES","on","ON": return true
    case "0","false","FALSE","False","no","NO","off","OFF": return false
    }
    log.Printf("config: %s=%q is not a boolean, using default %v", k, v, d)
    return d
}
func envInt(k string, d int) int {
    v := os.Getenv(k); if v == "" { return d }
    if n, err := strconv.Atoi(v); err == nil { return n }
    log.Printf("config: %s=%q is not an integer, using default %d", k, v, d)
    return d
}
func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k); if v == "" { return d }
    if dur, err := time.ParseDuration(v); err == nil && dur > 0 { return dur }
    log.Printf("config: %s=%q is not a positive duration, using default %s", k, v, d)
    return d
}

// parseList splits a comma separated value, trimming blanks.
func parseList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(p)
        if p != "" {
            out = append(out, p)
        }
    }
    return out
}
