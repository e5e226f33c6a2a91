package domain

import (
	"fmt"
	"strings"
)

type TicketData struct {
	FirstName string
	LastName  string
	Email     string
}

func (t TicketData) Validate() error {
	if strings.TrimSpace(t.FirstName) == "" || strings.TrimSpace(t.LastName) == "" {
		return fmt.Errorf("%w: ticket holder name is required", ErrValidation)
	}
	return nil
}

type Ticket struct {
	ExternalID string
	URL        string
	FirstName  string
	LastName   string
}

type TicketOrder struct {
	ExternalOrderID string
	Tickets         []Ticket
}
