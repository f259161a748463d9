package config

import (
	"os"
	"strings"
	"time"
)

// Environment is the resolved rendering environment handed to the output
// controllers at construction.
type Environment struct {
	// CIMode selects line output instead of the interactive display.
	CIMode            bool
	HeartbeatInterval time.Duration
	ThrottleInterval  time.Duration
}

// vendorCIVars are set by common CI providers that do not export CI.
var vendorCIVars = []string{
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_URL",
	"BUILDKITE",
	"DRONE",
	"TEAMCITY_VERSION",
	"TF_BUILD",            // Azure DevOps
	"BITBUCKET_PIPELINES", // Bitbucket
	"CODEBUILD_BUILD_ID",  // AWS CodeBuild
}

// Resolve combines the settings with the process environment.
func (c *Configuration) Resolve() Environment {
	return c.ResolveWith(os.Environ())
}

// ResolveWith is Resolve over an explicit KEY=VALUE list.
func (c *Configuration) ResolveWith(environ []string) Environment {
	ci := false
	switch {
	case c.DisableCIMode:
	case c.ForceCIMode:
		ci = true
	default:
		ci = DetectCI(environ)
	}
	return Environment{
		CIMode:            ci,
		HeartbeatInterval: time.Duration(c.CIMessageTimeout) * time.Millisecond,
		ThrottleInterval:  time.Duration(c.CIThrottle) * time.Millisecond,
	}
}

// DetectCI reports whether environ describes a CI run. A truthy DEBUG also
// selects line mode so output stays readable next to debug logs. CI=0 or
// CI=false turns detection off.
func DetectCI(environ []string) bool {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		vars[k] = v
	}

	if ci, ok := vars["CI"]; ok && !isTruthy(ci) {
		return isTruthy(vars["DEBUG"])
	}
	if isTruthy(vars["CI"]) || isTruthy(vars["CONTINUOUS_INTEGRATION"]) {
		return true
	}
	for k := range vars {
		if strings.HasPrefix(k, "CI_") {
			return true
		}
	}
	for _, k := range vendorCIVars {
		if vars[k] != "" {
			return true
		}
	}
	return isTruthy(vars["DEBUG"])
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
