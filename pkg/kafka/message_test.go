package kafka

import (
	"errors"
	"testing"
)

func TestMessageBuilder_FillsEventIDAndTimestamp(t *testing.T) {
	msg := NewMessage().
		WithKey("ZT-2025-123456").
		WithEventType(EventBookingCreated).
		WithSource("zinbook").
		WithValue(map[string]string{"booking_reference": "ZT-2025-123456"}).
		Build()

	if msg.GetEventID() == "" {
		t.Error("event-id header should be generated when unset")
	}
	if msg.Headers[HeaderTimestamp] == "" {
		t.Error("timestamp header should be generated when unset")
	}
	if msg.GetEventType() != EventBookingCreated {
		t.Errorf("event type = %q, want %q", msg.GetEventType(), EventBookingCreated)
	}
	if msg.Key != "ZT-2025-123456" {
		t.Errorf("key = %q, want booking reference", msg.Key)
	}
}

func TestMessage_DecodeValue(t *testing.T) {
	type payload struct {
		Reference string `json:"reference"`
	}

	msg := NewMessage().WithValue(payload{Reference: "ZT-2025-654321"}).Build()

	var decoded payload
	if err := msg.DecodeValue(&decoded); err != nil {
		t.Fatalf("DecodeValue() error = %v", err)
	}
	if decoded.Reference != "ZT-2025-654321" {
		t.Errorf("reference = %q, want ZT-2025-654321", decoded.Reference)
	}
}

func TestMessage_RetryCount(t *testing.T) {
	msg := NewMessage().WithRawValue([]byte("{}")).Build()

	if got := msg.GetRetryCount(); got != 0 {
		t.Errorf("initial retry count = %d, want 0", got)
	}
	msg.IncrementRetryCount()
	msg.IncrementRetryCount()
	if got := msg.GetRetryCount(); got != 2 {
		t.Errorf("retry count = %d, want 2", got)
	}
}

func TestMessage_RetryCountIgnoresGarbageHeader(t *testing.T) {
	msg := NewMessage().WithHeader(HeaderRetryCount, "many").Build()
	if got := msg.GetRetryCount(); got != 0 {
		t.Errorf("retry count = %d, want 0 for unparseable header", got)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"tagged transient", NewTransientError("broker unavailable", nil), ErrorTypeTransient},
		{"tagged permanent", NewPermanentError("bad schema", nil), ErrorTypePermanent},
		{"wrapped tagged error", errors.New("x"), ErrorTypePermanent},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrorTypeTransient},
		{"i/o timeout", errors.New("read tcp: i/o timeout"), ErrorTypeTransient},
		{"deadline exceeded", errors.New("context deadline exceeded"), ErrorTypeTransient},
		{"unknown defaults to permanent", errors.New("invalid payload shape"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("broker down", nil)
	permanent := NewPermanentError("poison message", nil)

	if !ShouldRetry(transient, 0, 3) {
		t.Error("transient error under the retry cap should retry")
	}
	if ShouldRetry(transient, 3, 3) {
		t.Error("retry cap reached, must not retry")
	}
	if ShouldRetry(permanent, 0, 3) {
		t.Error("permanent errors must never retry")
	}
	if ShouldRetry(nil, 0, 3) {
		t.Error("nil error must not retry")
	}
}
