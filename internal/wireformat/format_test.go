package wireformat

import (
	"testing"

	"github.com/tenzoki/gowire/internal/destination"
	"github.com/tenzoki/gowire/internal/ids"
)

func roundTrip(t *testing.T, tight bool, cmd Command) Command {
	t.Helper()
	f, err := NewFormat(2)
	if err != nil {
		t.Fatalf("NewFormat: %v", err)
	}
	f.tightEncodingEnabled.Store(tight)

	encoded, err := f.Marshal(cmd)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded, err := f.Unmarshal(encoded)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return decoded
}

func TestWireFormatInfoRoundTripTightAndLoose(t *testing.T) {
	orig := &WireFormatInfo{
		BaseCommand:           BaseCommand{CommandId: 7, ResponseRequired: true},
		Version:               2,
		TightEncodingEnabled:  true,
		CacheEnabled:          true,
		CacheSize:             512,
		StackTraceEnabled:     true,
		MaxInactivityDuration: 30000,
	}
	for _, tight := range []bool{true, false} {
		got := roundTrip(t, tight, orig).(*WireFormatInfo)
		if got.Version != orig.Version || got.CacheSize != orig.CacheSize || got.CommandId != orig.CommandId {
			t.Fatalf("tight=%v: round trip mismatch: %+v", tight, got)
		}
		if got.TightEncodingEnabled != orig.TightEncodingEnabled || got.StackTraceEnabled != orig.StackTraceEnabled {
			t.Fatalf("tight=%v: bool field mismatch: %+v", tight, got)
		}
	}
}

func TestTextMessageRoundTrip(t *testing.T) {
	connId := ids.NewConnectionId()
	sessId := ids.SessionId{ConnectionId: connId, Value: 1}
	prodId := ids.ProducerId{SessionId: sessId, Value: 1}
	msgId := ids.MessageId{ProducerId: prodId, Value: 42}

	m := NewTextMessage("hello openwire")
	m.MessageId = msgId
	m.ProducerId = prodId
	m.Destination = destination.NewQueue("orders")
	m.CorrelationId = "corr-1"
	m.Priority = 4
	m.Persistent = true
	m.Properties = map[string]interface{}{"retries": int32(3), "urgent": true}

	for _, tight := range []bool{true, false} {
		got := roundTrip(t, tight, m).(*Message)
		if got.Body.Text != "hello openwire" {
			t.Fatalf("tight=%v: body mismatch: %q", tight, got.Body.Text)
		}
		if got.Destination.PhysicalName != "orders" {
			t.Fatalf("tight=%v: destination mismatch: %+v", tight, got.Destination)
		}
		if got.MessageId.Value != 42 || got.Priority != 4 || !got.Persistent {
			t.Fatalf("tight=%v: header mismatch: %+v", tight, got)
		}
		if got.Properties["retries"] != int32(3) || got.Properties["urgent"] != true {
			t.Fatalf("tight=%v: properties mismatch: %+v", tight, got.Properties)
		}
	}
}

func TestMapMessageRoundTrip(t *testing.T) {
	m := NewMapMessage(map[string]interface{}{
		"count": int32(5),
		"label": "batch",
	})
	m.Destination = destination.NewTopic("events")

	for _, tight := range []bool{true, false} {
		got := roundTrip(t, tight, m).(*Message)
		if got.Body.Map["count"] != int32(5) || got.Body.Map["label"] != "batch" {
			t.Fatalf("tight=%v: map mismatch: %+v", tight, got.Body.Map)
		}
	}
}

func TestMessageDispatchRoundTripWithNilMessage(t *testing.T) {
	connId := ids.NewConnectionId()
	sessId := ids.SessionId{ConnectionId: connId, Value: 1}
	consId := ids.ConsumerId{SessionId: sessId, Value: 1}

	d := &MessageDispatch{
		ConsumerId:  consId,
		Destination: destination.NewQueue("orders"),
	}
	for _, tight := range []bool{true, false} {
		got := roundTrip(t, tight, d).(*MessageDispatch)
		if got.Message != nil {
			t.Fatalf("tight=%v: expected nil synthetic dispatch, got %+v", tight, got.Message)
		}
		if got.Destination.PhysicalName != "orders" {
			t.Fatalf("tight=%v: destination mismatch", tight)
		}
	}
}

func TestMessageDispatchRoundTripWithNestedMessage(t *testing.T) {
	connId := ids.NewConnectionId()
	sessId := ids.SessionId{ConnectionId: connId, Value: 1}
	consId := ids.ConsumerId{SessionId: sessId, Value: 1}
	prodId := ids.ProducerId{SessionId: sessId, Value: 1}

	inner := NewBytesMessage([]byte("payload"))
	inner.MessageId = ids.MessageId{ProducerId: prodId, Value: 9}
	inner.ProducerId = prodId
	inner.Destination = destination.NewQueue("orders")

	d := &MessageDispatch{
		ConsumerId:        consId,
		Destination:       destination.NewQueue("orders"),
		Message:           inner,
		RedeliveryCounter: 1,
	}
	for _, tight := range []bool{true, false} {
		got := roundTrip(t, tight, d).(*MessageDispatch)
		if got.Message == nil {
			t.Fatalf("tight=%v: expected nested message, got nil", tight)
		}
		if string(got.Message.Body.Bytes) != "payload" {
			t.Fatalf("tight=%v: nested body mismatch: %q", tight, got.Message.Body.Bytes)
		}
		if got.RedeliveryCounter != 1 {
			t.Fatalf("tight=%v: redelivery counter mismatch", tight)
		}
	}
}

func TestMessageAckRoundTrip(t *testing.T) {
	connId := ids.NewConnectionId()
	sessId := ids.SessionId{ConnectionId: connId, Value: 1}
	consId := ids.ConsumerId{SessionId: sessId, Value: 1}
	prodId := ids.ProducerId{SessionId: sessId, Value: 1}

	ack := &MessageAck{
		ConsumerId:     consId,
		Destination:    destination.NewQueue("orders"),
		AckType:        AckConsumed,
		FirstMessageId: ids.MessageId{ProducerId: prodId, Value: 1},
		LastMessageId:  ids.MessageId{ProducerId: prodId, Value: 5},
		MessageCount:   5,
	}
	for _, tight := range []bool{true, false} {
		got := roundTrip(t, tight, ack).(*MessageAck)
		if got.AckType != AckConsumed || got.MessageCount != 5 {
			t.Fatalf("tight=%v: ack mismatch: %+v", tight, got)
		}
		if got.TransactionId != nil {
			t.Fatalf("tight=%v: expected nil transaction id", tight)
		}
	}

	txnId := ids.TransactionId{ConnectionId: connId, Value: 3}
	ack.TransactionId = &txnId
	for _, tight := range []bool{true, false} {
		got := roundTrip(t, tight, ack).(*MessageAck)
		if got.TransactionId == nil || got.TransactionId.Value != 3 {
			t.Fatalf("tight=%v: transaction id mismatch: %+v", tight, got.TransactionId)
		}
	}
}

func TestNegotiateWireFormatTakesPairwiseMinAndAnd(t *testing.T) {
	local := &WireFormatInfo{Version: 2, TightEncodingEnabled: true, CacheEnabled: true, CacheSize: 1024, MaxInactivityDuration: 30000}
	remote := &WireFormatInfo{Version: 1, TightEncodingEnabled: false, CacheEnabled: true, CacheSize: 256, MaxInactivityDuration: 10000}

	eff := NegotiateWireFormat(local, remote)
	if eff.Version != 1 {
		t.Fatalf("expected min version 1, got %d", eff.Version)
	}
	if eff.TightEncodingEnabled {
		t.Fatalf("expected AND of true/false to be false")
	}
	if eff.CacheSize != 256 {
		t.Fatalf("expected min cache size 256, got %d", eff.CacheSize)
	}
	if eff.MaxInactivityDuration != 10000 {
		t.Fatalf("expected min inactivity duration 10000, got %d", eff.MaxInactivityDuration)
	}

	// Negotiating twice with the same offers is idempotent (monotonicity).
	again := NegotiateWireFormat(local, remote)
	if *again != *eff {
		t.Fatalf("negotiation not deterministic: %+v vs %+v", again, eff)
	}
}

func TestUnsupportedVersionRejected(t *testing.T) {
	if _, err := NewFormat(99); err == nil {
		t.Fatalf("expected UnsupportedVersionError for version 99")
	}
}
