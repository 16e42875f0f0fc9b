package wireformat

import "fmt"

// marshalEntry groups the five operations a command tag needs under both
// encodings. tightMarshal1/tightMarshal2 implement the two-pass algorithm
// of spec.md §4.1; looseMarshal/looseUnmarshal implement the single-pass
// fallback.
type marshalEntry struct {
	tightMarshal1  func(cmd Command, bs *BooleanStream) (int, error)
	tightMarshal2  func(cmd Command, bs *BooleanStream) ([]byte, error)
	tightUnmarshal func(bs *BooleanStream, data []byte) (Command, []byte, error)
	looseMarshal   func(cmd Command) ([]byte, error)
	looseUnmarshal func(data []byte) (Command, []byte, error)
}

// marshalTable is the per-version array indexed by tag (0..255) spec.md
// §4.1 requires: "The codec keeps an array indexed by tag. ... Version
// switch replaces the whole array atomically."
type marshalTable [256]*marshalEntry

// buildMarshalTable constructs the marshaller table for a given protocol
// version. gowire's command set has no version-specific wire differences
// beyond the negotiated feature flags (already handled by Format), so
// every supported version currently shares one table; the indirection
// still exists so a future version that does need a different layout for
// one command can override just that tag's entry.
func buildMarshalTable(version int32) (*marshalTable, error) {
	if version < 1 || version > 2 {
		return nil, &UnsupportedVersionError{Version: int(version)}
	}

	t := &marshalTable{}
	t[TagWireFormatInfo] = wireFormatInfoEntry
	t[TagBrokerInfo] = brokerInfoEntry
	t[TagConnectionInfo] = connectionInfoEntry
	t[TagSessionInfo] = sessionInfoEntry
	t[TagConsumerInfo] = consumerInfoEntry
	t[TagProducerInfo] = producerInfoEntry
	t[TagRemoveInfo] = removeInfoEntry
	t[TagDestinationInfo] = destinationInfoEntry
	t[TagTextMessage] = messageEntry(BodyText)
	t[TagBytesMessage] = messageEntry(BodyBytes)
	t[TagMapMessage] = messageEntry(BodyMap)
	t[TagStreamMessage] = messageEntry(BodyStream)
	t[TagObjectMessage] = messageEntry(BodyObject)
	t[TagMessageDispatch] = messageDispatchEntry
	t[TagMessageAck] = messageAckEntry
	t[TagMessagePull] = messagePullEntry
	t[TagTransactionInfo] = transactionInfoEntry
	t[TagShutdownInfo] = shutdownInfoEntry
	t[TagKeepAliveInfo] = keepAliveInfoEntry
	t[TagConnectionError] = connectionErrorEntry
	t[TagResponse] = responseEntry
	t[TagExceptionResponse] = exceptionResponseEntry
	return t, nil
}

func entryFor(t *marshalTable, tag Tag) (*marshalEntry, error) {
	e := t[tag]
	if e == nil {
		return nil, &UnknownCommandError{Tag: byte(tag)}
	}
	return e, nil
}

var errNilCommand = fmt.Errorf("wireformat: nil command")
