package metrics

import (
	"strconv"
	"time"
)

// Collector records request-level metrics for the gateway and the demo
// backend.
type Collector interface {
	// RecordRequest records one HTTP round trip. endpoint should be a route
	// template, not a concrete path, to keep label cardinality bounded.
	RecordRequest(method, endpoint string, status int, duration time.Duration)

	// RecordForcedLogout records a session cleared because of a 401.
	RecordForcedLogout()
}

// NoOpCollector is the default when metrics are not needed.
type NoOpCollector struct{}

func (NoOpCollector) RecordRequest(method, endpoint string, status int, duration time.Duration) {}

func (NoOpCollector) RecordForcedLogout() {}

// StatusClass buckets a status code into "2xx", "4xx" and so on. Zero means
// the request never got a response.
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
