package ids

import "testing"

func TestSessionSequenceGeneratorMonotonic(t *testing.T) {
	conn := NewConnectionId()
	gen := NewSessionSequenceGenerator(conn)

	first := gen.Next()
	second := gen.Next()

	if first.Value != 1 || second.Value != 2 {
		t.Fatalf("expected sequence 1,2; got %d,%d", first.Value, second.Value)
	}
	if first.ConnectionId != conn || second.ConnectionId != conn {
		t.Fatalf("expected both session ids to share parent connection id")
	}
}

func TestConsumerAndProducerIdsScopedToSession(t *testing.T) {
	conn := NewConnectionId()
	session := NewSessionSequenceGenerator(conn).Next()

	consumerGen := NewConsumerSequenceGenerator(session)
	producerGen := NewProducerSequenceGenerator(session)

	c1 := consumerGen.Next()
	p1 := producerGen.Next()

	if c1.SessionId != session || p1.SessionId != session {
		t.Fatalf("expected consumer/producer ids scoped to the session")
	}
	if c1.Value != 1 || p1.Value != 1 {
		t.Fatalf("expected independent counters starting at 1, got consumer=%d producer=%d", c1.Value, p1.Value)
	}
}

func TestMessageIdTotalOrderPerProducer(t *testing.T) {
	conn := NewConnectionId()
	session := NewSessionSequenceGenerator(conn).Next()
	producer := NewProducerSequenceGenerator(session).Next()
	msgGen := NewMessageSequenceGenerator(producer)

	m1 := msgGen.Next()
	m2 := msgGen.Next()

	if !m1.Less(m2) {
		t.Fatalf("expected m1 < m2 for sequential sends on the same producer")
	}
}

func TestConnectionIdsNeverReused(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewConnectionId()
		if seen[id.Value] {
			t.Fatalf("connection id %q generated twice", id.Value)
		}
		seen[id.Value] = true
	}
}
