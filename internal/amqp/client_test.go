package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp091 "github.com/rabbitmq/amqp091-go"
)

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func TestHandleDelivery(t *testing.T) {
	valid, err := NewLedgerEvent(KindIncome, "Jan 2025", "100", time.Now()).ToJSON()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	tests := []struct {
		name        string
		body        []byte
		handlerErr  error
		wantAck     bool
		wantRequeue bool
		wantCalled  bool
	}{
		{"processed", valid, nil, true, false, true},
		{"handler failure requeues", valid, errors.New("sheets down"), false, true, true},
		{"malformed body dropped", []byte("{not json"), nil, false, false, false},
		{"unknown kind dropped", []byte(`{"id":"8f8b1f2e-8f38-4a51-9a51-0d6f9c1f4a11","kind":"refund"}`), nil, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAcknowledger{}
			called := false
			c := &Client{queueName: "ledger_events"}
			c.handle(context.Background(), amqp091.Delivery{Acknowledger: ack, Body: tt.body},
				func(context.Context, *LedgerEvent) error {
					called = true
					return tt.handlerErr
				})

			if called != tt.wantCalled {
				t.Fatalf("handler called = %v, want %v", called, tt.wantCalled)
			}
			if ack.acked != tt.wantAck {
				t.Errorf("acked = %v, want %v", ack.acked, tt.wantAck)
			}
			if !tt.wantAck && !ack.nacked {
				t.Errorf("expected nack")
			}
			if ack.requeue != tt.wantRequeue {
				t.Errorf("requeue = %v, want %v", ack.requeue, tt.wantRequeue)
			}
		})
	}
}
