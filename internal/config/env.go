package config

import (
	"os"
	"strings"
)

// Settings is the process-wide configuration read from the environment.
type Settings struct {
	// NoEnv skips environment relocation (SPT_NOENV).
	NoEnv bool
	// NoRemap keeps titles in the original argument area (SPT_NOREMAP).
	NoRemap bool
	// Debug enables diagnostic logging (SPT_DEBUG).
	Debug bool
	// DebugLog is the diagnostic log path, empty for stderr (SPT_DEBUG_LOG).
	DebugLog string
	// Encoding is the requested title encoding name, empty for the locale
	// default (SPT_ENCODING).
	Encoding string
}

// FromEnv reads Settings from the current process environment. It is not
// cached: callers decide when the environment is sampled.
func FromEnv() Settings {
	return Settings{
		NoEnv:    Enabled(os.Getenv(EnvNoEnv)),
		NoRemap:  Enabled(os.Getenv(EnvNoRemap)),
		Debug:    Enabled(os.Getenv(EnvDebug)),
		DebugLog: strings.TrimSpace(os.Getenv(EnvDebugLog)),
		Encoding: strings.TrimSpace(os.Getenv(EnvEncoding)),
	}
}

// Enabled reports whether a flag-style environment value switches a feature
// on. Any non-empty value counts except the usual spellings of false.
func Enabled(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}
