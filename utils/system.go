package utils

import (
	"log/slog"
	"strconv"

	"github.com/shirou/gopsutil/v3/cpu"
)

// GetOptimalWorkerCount determines the number of batch workers based on config and system resources.
func GetOptimalWorkerCount(configValue string) int {
	if manualWorkers, err := strconv.Atoi(configValue); err == nil && manualWorkers > 0 {
		slog.Info("using configured number of workers", "workers", manualWorkers)
		return manualWorkers
	}

	if configValue != "auto" && configValue != "" {
		slog.Warn("invalid workers value, defaulting to auto", "value", configValue)
	}

	cpuCores, err := cpu.Counts(true)
	if err != nil {
		slog.Warn("could not detect CPU cores, falling back to default", "workers", 2)
		return 2
	}

	// Every worker owns a browser instance, so stay well below the core count.
	optimalCount := cpuCores / 2
	if optimalCount < 1 {
		optimalCount = 1
	}
	if optimalCount > 8 {
		optimalCount = 8
	}

	slog.Info("sized worker pool from logical cores", "cores", cpuCores, "workers", optimalCount)
	return optimalCount
}
