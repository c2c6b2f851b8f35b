package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the exposition handler for the collector's registry, or
// nil when metrics are disabled so callers can skip mounting the route.
func (c *Collector) Handler() http.Handler {
	if !c.enabled() {
		return nil
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
