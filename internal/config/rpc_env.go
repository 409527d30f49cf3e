package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches a value that is exactly one ${VAR_NAME} reference
var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// DetectEnvVar reports whether a raw vaultctl.toml value is a single ${VAR}
// reference and returns the variable name.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName returns the conventional RPC variable for a network:
// uppercase, dashes and dots to underscores, then _RPC_URL.
// base-sepolia -> BASE_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// resolveRPCURL expands a raw rpc_url. An empty value, or a lone ${VAR}
// reference to an unset variable, falls back to the network's conventional
// <NAME>_RPC_URL variable.
func resolveRPCURL(networkName, raw string) string {
	if name, ok := DetectEnvVar(raw); ok {
		if value, set := os.LookupEnv(name); set && value != "" {
			return value
		}
		raw = ""
	}
	if raw == "" {
		return os.Getenv(GenerateEnvVarName(networkName))
	}
	return os.ExpandEnv(raw)
}
