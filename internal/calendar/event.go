// Package calendar derives calendar events from accounts.
//
// Events are a pure projection of the current account set: due dates and
// scheduled payments of debt accounts, and the paydays of savings accounts
// with an income schedule expanded over a rolling three month window.
// Nothing here is stored; callers derive again whenever accounts change or
// the viewed month moves.
package calendar

import (
	"encoding/json"
	"time"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/shopspring/decimal"
)

// Category is the calendar category of an event
type Category string

const (
	CategoryDueDate Category = "due-date"
	CategoryPayDate Category = "pay-date"
)

// Payload is the category specific data carried by an Event.
// It is implemented by DuePayload, PaymentPayload and IncomePayload.
type Payload interface {
	// Category is the event category the payload belongs to
	Category() Category
	// Kind names the variant: "due", "payment" or "income"
	Kind() string
	// Source is the account the event was derived from
	Source() models.Account
	// Amount is the resolved amount shown for the event
	Amount() decimal.Decimal
}

// DuePayload belongs to a due-date event. Amount is the positive amount due.
type DuePayload struct {
	Account models.Account
	Due     decimal.Decimal
}

func (DuePayload) Category() Category        { return CategoryDueDate }
func (DuePayload) Kind() string              { return "due" }
func (p DuePayload) Source() models.Account  { return p.Account }
func (p DuePayload) Amount() decimal.Decimal { return p.Due }

// PaymentPayload belongs to a one-off scheduled debt payment
type PaymentPayload struct {
	Account         models.Account
	Payment         decimal.Decimal
	LinkedAccountID string
}

func (PaymentPayload) Category() Category        { return CategoryPayDate }
func (PaymentPayload) Kind() string              { return "payment" }
func (p PaymentPayload) Source() models.Account  { return p.Account }
func (p PaymentPayload) Amount() decimal.Decimal { return p.Payment }

// IncomePayload belongs to one occurrence of a recurring income schedule
type IncomePayload struct {
	Account   models.Account
	Earnings  decimal.Decimal
	Frequency models.Frequency
}

func (IncomePayload) Category() Category        { return CategoryPayDate }
func (IncomePayload) Kind() string              { return "income" }
func (p IncomePayload) Source() models.Account  { return p.Account }
func (p IncomePayload) Amount() decimal.Decimal { return p.Earnings }

// Event is a single marker on the calendar
type Event struct {
	ID      string
	Title   string
	Date    time.Time
	Payload Payload
}

// Category returns the category of the event's payload
func (e Event) Category() Category {
	return e.Payload.Category()
}

// Amount returns the resolved amount of the event
func (e Event) Amount() decimal.Decimal {
	return e.Payload.Amount()
}

// Frequency returns the income frequency and true for recurring income events
func (e Event) Frequency() (models.Frequency, bool) {
	if p, ok := e.Payload.(IncomePayload); ok {
		return p.Frequency, true
	}
	return "", false
}

type eventData struct {
	Account         models.Account   `json:"account"`
	Amount          decimal.Decimal  `json:"amount"`
	Frequency       models.Frequency `json:"frequency,omitempty"`
	LinkedAccountID string           `json:"linkedAccountId,omitempty"`
}

type eventJSON struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Date  string    `json:"date"`
	Type  Category  `json:"type"`
	Kind  string    `json:"kind"`
	Data  eventData `json:"data"`
}

// MarshalJSON renders the event with its payload flattened into "data"
func (e Event) MarshalJSON() ([]byte, error) {
	data := eventData{
		Account: e.Payload.Source(),
		Amount:  e.Payload.Amount(),
	}
	switch p := e.Payload.(type) {
	case PaymentPayload:
		data.LinkedAccountID = p.LinkedAccountID
	case IncomePayload:
		data.Frequency = p.Frequency
	}
	return json.Marshal(eventJSON{
		ID:    e.ID,
		Title: e.Title,
		Date:  e.Date.Format(models.DateLayout),
		Type:  e.Category(),
		Kind:  e.Payload.Kind(),
		Data:  data,
	})
}
