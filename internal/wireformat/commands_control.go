package wireformat

// WireFormatInfo is exchanged at connect time; each side advertises its
// preferred feature set and version (spec.md §4.1 "Negotiation").
type WireFormatInfo struct {
	BaseCommand

	Version int32

	TightEncodingEnabled              bool
	SizePrefixDisabled                bool
	CacheEnabled                      bool
	CacheSize                         int32
	StackTraceEnabled                 bool
	TcpNoDelayEnabled                 bool
	MaxInactivityDuration             int64
	MaxInactivityDurationInitialDelay int64
}

func (*WireFormatInfo) Tag() Tag { return TagWireFormatInfo }

// BrokerInfo advertises broker identity/capabilities once the connection
// is established.
type BrokerInfo struct {
	BaseCommand

	BrokerId   string
	BrokerURL  string
	BrokerName string
}

func (*BrokerInfo) Tag() Tag { return TagBrokerInfo }

// ShutdownInfo signals a clean broker-initiated shutdown.
type ShutdownInfo struct {
	BaseCommand
}

func (*ShutdownInfo) Tag() Tag { return TagShutdownInfo }

// KeepAliveInfo is the heartbeat exchanged at the negotiated
// MaxInactivityDuration interval.
type KeepAliveInfo struct {
	BaseCommand
}

func (*KeepAliveInfo) Tag() Tag { return TagKeepAliveInfo }

// ConnectionError carries a broker-reported fatal connection-level
// failure (spec.md §7 kind 1: "Transport broken").
type ConnectionError struct {
	BaseCommand

	Message    string
	StackTrace string
}

func (*ConnectionError) Tag() Tag { return TagConnectionError }
