// Package observability starts continuous profiling, mirroring the
// teacher's main.go call (observability.StartProfiling("transcode-service"))
// whose implementation was not present in the retrieved pack; reconstructed
// here against the same pyroscope-go client the teacher's go.mod requires.
package observability

import (
	"os"

	"github.com/grafana/pyroscope-go"

	"jobplane/pkg/logger"
)

// StartProfiling begins continuous profiling for appName if PYROSCOPE_SERVER_ADDRESS
// is set; otherwise it is a no-op, so local runs without a collector are unaffected.
func StartProfiling(appName string) *pyroscope.Profiler {
	addr := os.Getenv("PYROSCOPE_SERVER_ADDRESS")
	if addr == "" {
		return nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   addr,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		logger.Warnf("profiling start failed app=%s error=%v", appName, err)
		return nil
	}
	return profiler
}
