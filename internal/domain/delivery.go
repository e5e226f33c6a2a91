package domain

// DeliveryStatus is the aggregated outcome of a fan-out.
type DeliveryStatus string

const (
	DeliveryStatusSent    DeliveryStatus = "SENT"
	DeliveryStatusFailed  DeliveryStatus = "FAILED"
	DeliveryStatusPartial DeliveryStatus = "PARTIAL"
	// DeliveryStatusNoRecipients is reported when the event has no integration
	// of the fanned-out usage. Nothing was attempted.
	DeliveryStatusNoRecipients DeliveryStatus = "NO_RECIPIENTS"
)

func (s DeliveryStatus) String() string { return string(s) }

// RecipientStatus is the outcome of a single fan-out attempt.
type RecipientStatus string

const (
	RecipientStatusSent   RecipientStatus = "SENT"
	RecipientStatusFailed RecipientStatus = "FAILED"
)

func (s RecipientStatus) String() string { return string(s) }

// RecipientResult records one attempt against one integration.
type RecipientResult struct {
	Recipient string
	Provider  Provider
	Status    RecipientStatus
	Error     string
}

// DeliveryResult is computed from its recipients and never persisted.
type DeliveryResult struct {
	Status     DeliveryStatus
	Recipients []RecipientResult
}

// NewDeliveryResult aggregates recipients, keeping their order.
func NewDeliveryResult(recipients []RecipientResult) DeliveryResult {
	if recipients == nil {
		recipients = []RecipientResult{}
	}
	return DeliveryResult{
		Status:     AggregateStatus(recipients),
		Recipients: recipients,
	}
}

// AggregateStatus is SENT iff every recipient succeeded, FAILED iff every
// recipient failed and PARTIAL otherwise.
func AggregateStatus(recipients []RecipientResult) DeliveryStatus {
	if len(recipients) == 0 {
		return DeliveryStatusNoRecipients
	}

	sent := 0
	for _, r := range recipients {
		if r.Status == RecipientStatusSent {
			sent++
		}
	}

	switch sent {
	case len(recipients):
		return DeliveryStatusSent
	case 0:
		return DeliveryStatusFailed
	default:
		return DeliveryStatusPartial
	}
}

// Counts returns the number of sent and failed recipients.
func (r DeliveryResult) Counts() (sent int, failed int) {
	for _, rec := range r.Recipients {
		if rec.Status == RecipientStatusSent {
			sent++
		} else {
			failed++
		}
	}
	return sent, failed
}
