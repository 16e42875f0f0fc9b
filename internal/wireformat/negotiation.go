package wireformat

// NegotiateWireFormat computes the effective WireFormatInfo from a local
// (client-proposed) and remote (broker-advertised) offer, per spec.md
// §4.1: numeric options take the pairwise minimum, boolean options take
// the pairwise AND, and the effective version is the minimum of the two
// proposed versions. Calling this twice with the same two offers always
// yields the same result (spec.md §8 testable property 6,
// "Version negotiation monotonicity").
func NegotiateWireFormat(local, remote *WireFormatInfo) *WireFormatInfo {
	return &WireFormatInfo{
		Version:                           minInt32(local.Version, remote.Version),
		TightEncodingEnabled:              local.TightEncodingEnabled && remote.TightEncodingEnabled,
		SizePrefixDisabled:                local.SizePrefixDisabled && remote.SizePrefixDisabled,
		CacheEnabled:                      local.CacheEnabled && remote.CacheEnabled,
		CacheSize:                         minInt32(local.CacheSize, remote.CacheSize),
		StackTraceEnabled:                 local.StackTraceEnabled && remote.StackTraceEnabled,
		TcpNoDelayEnabled:                 local.TcpNoDelayEnabled && remote.TcpNoDelayEnabled,
		MaxInactivityDuration:             minInt64(local.MaxInactivityDuration, remote.MaxInactivityDuration),
		MaxInactivityDurationInitialDelay: minInt64(local.MaxInactivityDurationInitialDelay, remote.MaxInactivityDurationInitialDelay),
	}
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// DefaultClientWireFormatInfo is gowire's initial offer, sent before any
// negotiation has happened.
func DefaultClientWireFormatInfo() *WireFormatInfo {
	return &WireFormatInfo{
		Version:                           2,
		TightEncodingEnabled:              true,
		SizePrefixDisabled:                false,
		CacheEnabled:                      true,
		CacheSize:                         1024,
		StackTraceEnabled:                 true,
		TcpNoDelayEnabled:                 true,
		MaxInactivityDuration:             30000,
		MaxInactivityDurationInitialDelay: 10000,
	}
}
