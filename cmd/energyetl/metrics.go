package main

import (
	"fmt"
	"strings"

	"github.com/iNicoNavarro/data-problems/internal/config"
	"github.com/iNicoNavarro/data-problems/internal/metrics"
	"github.com/iNicoNavarro/data-problems/internal/metrics/datadog"
	"github.com/iNicoNavarro/data-problems/internal/metrics/prompush"
)

// newMetricsBackend returns the backend named by m.Backend, or nil when
// metrics are disabled.
func newMetricsBackend(m config.MetricsConfig) (metrics.Backend, error) {
	switch strings.ToLower(m.Backend) {
	case "", "none":
		return nil, nil
	case "pushgateway", "prom", "prometheus":
		b, err := prompush.NewBackend("energyetl", m.PushgatewayURL)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "datadog", "dd":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       m.DatadogAddr,
			Namespace:  "energyetl.",
			GlobalTags: []string{"service:energyetl"},
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", m.Backend)
	}
}
