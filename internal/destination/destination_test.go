package destination

import "testing"

func TestParseDestinationNamePlain(t *testing.T) {
	name, opts, err := ParseDestinationName("orders.inbound")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "orders.inbound" {
		t.Fatalf("expected bare name, got %q", name)
	}
	if opts.PrefetchSize != nil || opts.Selector != "" {
		t.Fatalf("expected zero-value options, got %+v", opts)
	}
}

func TestParseDestinationNameWithOptions(t *testing.T) {
	name, opts, err := ParseDestinationName("orders.inbound?consumer.prefetchSize=5&consumer.selector=type%3D%27urgent%27&consumer.noLocal=true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "orders.inbound" {
		t.Fatalf("expected stripped name, got %q", name)
	}
	if opts.PrefetchSize == nil || *opts.PrefetchSize != 5 {
		t.Fatalf("expected prefetchSize=5, got %+v", opts.PrefetchSize)
	}
	if opts.Selector != "type='urgent'" {
		t.Fatalf("expected decoded selector, got %q", opts.Selector)
	}
	if !opts.NoLocal {
		t.Fatalf("expected noLocal=true")
	}
}

func TestTemporaryDestinationOwnership(t *testing.T) {
	d := NewTemporaryQueue("ID:broker-1:temp:1", "ID:client-conn-1")
	if !d.Kind.Temporary() {
		t.Fatalf("expected temporary queue to report Temporary()=true")
	}
	if d.OwnerConnID != "ID:client-conn-1" {
		t.Fatalf("expected owner connection id to be recorded")
	}
}

func TestPermanentDestinationKindString(t *testing.T) {
	if NewQueue("q").Kind.String() != "queue" {
		t.Fatalf("expected queue kind string")
	}
	if NewTopic("t").Kind.String() != "topic" {
		t.Fatalf("expected topic kind string")
	}
}
