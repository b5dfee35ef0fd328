package observability

import (
	"fmt"

	"go.uber.org/zap"
)

// FlushTelemetry flushes telemetry before process exit: the metrics textfile
// (when metricsFile is set) and then buffered logs.
func FlushTelemetry(logger *zap.Logger, metricsFile string) error {
	if metricsFile != "" {
		if err := WriteMetricsFile(metricsFile); err != nil {
			return err
		}
	}
	if logger != nil {
		if err := logger.Sync(); err != nil {
			return fmt.Errorf("flush logs: %w", err)
		}
	}
	return nil
}
