package telemetry

// Config holds tracing settings for the OTLP exporter.
type Config struct {
	// Enabled controls whether spans are exported at all.
	Enabled bool

	// ServiceName identifies this process in the trace backend.
	ServiceName string

	// ServiceVersion is reported alongside the service name.
	ServiceVersion string

	// Endpoint is the OTLP/gRPC collector address, e.g. "localhost:4317".
	Endpoint string

	// Insecure dials the collector without TLS.
	Insecure bool

	// SampleRate is the fraction of traces to keep, from 0 to 1.
	SampleRate float64
}

// DefaultConfig returns the tracing defaults: disabled, local collector,
// full sampling.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "cubby",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}
