// Package identity reports who this daemon is: hostname and software
// version, as served by /api/info and advertised over mDNS.
package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultVersion is the fallback version string when metadata.json is
// not present in the config directory.
const DefaultVersion = "0.1.0"

// Hostname returns the system hostname, or a fixed fallback when the
// kernel cannot provide one.
func Hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "nct7904d"
	}
	return h
}

// Version reads the version from metadata.json in the given config
// directory. Packaged installs drop that file next to the config;
// development builds run without it and report DefaultVersion.
func Version(configDir string) string {
	data, err := os.ReadFile(filepath.Join(configDir, "metadata.json"))
	if err != nil {
		return DefaultVersion
	}

	var meta map[string]interface{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return DefaultVersion
	}

	if v, ok := meta["version"].(string); ok && v != "" {
		return v
	}
	return DefaultVersion
}
