package constants

const (
	MAX_RIDES_PER_BATCH = 50

	// Upload size caps, enforced before any decoding happens.
	MAX_TRACE_BYTES   = 20 << 20
	MAX_NETWORK_BYTES = 200 << 20
)
