package domain

import "testing"

func TestAggregateStatus(t *testing.T) {
	t.Parallel()

	sent := RecipientResult{Recipient: "a", Status: RecipientStatusSent}
	failed := RecipientResult{Recipient: "b", Status: RecipientStatusFailed}

	tests := []struct {
		name       string
		recipients []RecipientResult
		want       DeliveryStatus
	}{
		{name: "all sent", recipients: []RecipientResult{sent, sent, sent}, want: DeliveryStatusSent},
		{name: "all failed", recipients: []RecipientResult{failed, failed, failed}, want: DeliveryStatusFailed},
		{name: "one failed", recipients: []RecipientResult{sent, failed, sent}, want: DeliveryStatusPartial},
		{name: "single sent", recipients: []RecipientResult{sent}, want: DeliveryStatusSent},
		{name: "no recipients", recipients: nil, want: DeliveryStatusNoRecipients},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := AggregateStatus(tt.recipients); got != tt.want {
				t.Fatalf("AggregateStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewDeliveryResultKeepsOrderAndCounts(t *testing.T) {
	t.Parallel()

	result := NewDeliveryResult([]RecipientResult{
		{Recipient: "first", Status: RecipientStatusFailed},
		{Recipient: "second", Status: RecipientStatusSent},
	})

	if result.Status != DeliveryStatusPartial {
		t.Fatalf("status = %s, want PARTIAL", result.Status)
	}
	if result.Recipients[0].Recipient != "first" || result.Recipients[1].Recipient != "second" {
		t.Fatalf("recipient order changed: %+v", result.Recipients)
	}

	sent, failed := result.Counts()
	if sent != 1 || failed != 1 {
		t.Fatalf("Counts() = (%d, %d), want (1, 1)", sent, failed)
	}
}

func TestNewDeliveryResultEmpty(t *testing.T) {
	t.Parallel()

	result := NewDeliveryResult(nil)
	if result.Status != DeliveryStatusNoRecipients {
		t.Fatalf("status = %s, want NO_RECIPIENTS", result.Status)
	}
	if result.Recipients == nil || len(result.Recipients) != 0 {
		t.Fatalf("recipients = %#v, want empty non-nil slice", result.Recipients)
	}
}
