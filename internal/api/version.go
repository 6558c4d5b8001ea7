package api

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// BuildInfo is the build metadata injected via ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
}

// WithDefaults fills unset fields with "dev" / "unknown".
func (b BuildInfo) WithDefaults() BuildInfo {
	if b.Version == "" {
		b.Version = "dev"
	}
	if b.GitCommit == "" {
		b.GitCommit = "unknown"
	}
	if b.BuildDate == "" {
		b.BuildDate = "unknown"
	}
	return b
}

type versionResponse struct {
	BuildInfo
	GoVersion string `json:"go_version"`
}

// VersionHandler serves build metadata at /version.
func VersionHandler(info BuildInfo) http.Handler {
	response := versionResponse{BuildInfo: info.WithDefaults(), GoVersion: runtime.Version()}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	})
}
