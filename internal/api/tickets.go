package api

import (
	"context"

	"github.com/vxhub/vxhub-cli/internal/validation"
)

// List retrieves all support tickets for this device.
func (s TicketsService) List(ctx context.Context) (*TicketList, error) {
	return call[TicketList](ctx, s.Client, GetTickets())
}

// Create opens a new support ticket.
func (s TicketsService) Create(ctx context.Context, category, message string) (*TicketCreateResult, error) {
	if err := validation.ValidateCategory(category); err != nil {
		return nil, err
	}
	if err := validation.ValidateMessage(message); err != nil {
		return nil, err
	}
	return call[TicketCreateResult](ctx, s.Client, CreateTicket(category, message))
}

// Messages retrieves the message thread for one ticket.
func (s TicketsService) Messages(ctx context.Context, ticketID string) (*TicketMessages, error) {
	return call[TicketMessages](ctx, s.Client, GetTicketMessages(ticketID))
}

// Send posts a message to one ticket.
func (s TicketsService) Send(ctx context.Context, ticketID, message string) (*MessageResult, error) {
	if err := validation.ValidateMessage(message); err != nil {
		return nil, err
	}
	return call[MessageResult](ctx, s.Client, CreateMessage(ticketID, message))
}

// UnseenStatus reports whether any ticket has unseen agent replies.
func (s TicketsService) UnseenStatus(ctx context.Context) (*UnseenStatus, error) {
	return call[UnseenStatus](ctx, s.Client, GetTicketsUnseenStatus())
}
