package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kcmvp/pos/constraint"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// MaxCustomerFieldLength bounds customer name, contact and address.
const MaxCustomerFieldLength = 100

var now = time.Now

// EventKind is what happened to the order of an editing session.
type EventKind int

const (
	// EventAdded follows the first save of a new order.
	EventAdded EventKind = iota
	EventSaved
	EventRemoved
)

// Event is published by an Editor after its order is written or deleted.
type Event struct {
	Kind   EventKind
	ID     int64
	Editor *Editor
}

// Validate checks the length limits and the status of h.
func (h Header) Validate() error {
	statuses := lo.Map(Statuses(), func(s Status, _ int) int { return int(s) })
	return errors.Join(
		constraint.Validate("customer_name", h.CustomerName, constraint.MaxLength(MaxCustomerFieldLength)),
		constraint.Validate("customer_contact", h.CustomerContact, constraint.MaxLength(MaxCustomerFieldLength)),
		constraint.Validate("customer_address", h.CustomerAddress, constraint.MaxLength(MaxCustomerFieldLength)),
		constraint.Validate("status", int(h.Status), constraint.OneOf(statuses...)),
	)
}

// Editor is the editing session of one order: its header and its lines.
type Editor struct {
	storage   Storage
	id        int64
	session   uuid.UUID
	header    Header
	lines     *LineStore
	observers []func(context.Context, Event)
}

// NewEditor opens a session for order id, or for a new order when id is NewOrderID.
func NewEditor(ctx context.Context, storage Storage, id int64) (*Editor, error) {
	e := &Editor{
		storage: storage,
		id:      id,
		session: uuid.New(),
		lines:   NewLineStore(storage, storage.Products()),
	}
	if id == NewOrderID {
		e.header = Header{OpenDateTime: now(), Status: Active}
	} else {
		found, err := storage.GetOrder(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("open order %d: %w", id, err)
		}
		o, ok := found.Get()
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
		}
		e.header = o.Header
		if err := e.lines.Load(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := e.lines.RefreshProducts(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// ID is the order id, NewOrderID until the first save.
func (e *Editor) ID() int64 { return e.id }

// Session identifies the editing session, stable across the first save.
func (e *Editor) Session() uuid.UUID { return e.session }

// Title is "#<id>" for saved orders and "New" otherwise.
func (e *Editor) Title() string {
	if e.id == NewOrderID {
		return "New"
	}
	return fmt.Sprintf("#%d", e.id)
}

// Header returns the current header values.
func (e *Editor) Header() Header { return e.header }

// Lines is the line store of the session.
func (e *Editor) Lines() *LineStore { return e.lines }

// Total is the grand total of the lines.
func (e *Editor) Total() decimal.Decimal { return e.lines.Total() }

// SetHeader replaces the header after trimming text fields. An invalid header is not applied.
func (e *Editor) SetHeader(h Header) error {
	h.CustomerName = strings.TrimSpace(h.CustomerName)
	h.CustomerContact = strings.TrimSpace(h.CustomerContact)
	h.CustomerAddress = strings.TrimSpace(h.CustomerAddress)
	if h.OpenDateTime.IsZero() {
		h.OpenDateTime = e.header.OpenDateTime
	}
	if err := h.Validate(); err != nil {
		return err
	}
	e.header = h
	return nil
}

// Subscribe registers fn to be called after the order is added, saved or removed.
func (e *Editor) Subscribe(fn func(context.Context, Event)) {
	e.observers = append(e.observers, fn)
}

// Save writes the header with the current grand total and commits the lines in one transaction.
// The first save of a new order publishes EventAdded before EventSaved.
func (e *Editor) Save(ctx context.Context) error {
	if err := constraint.Validate("customer_name", e.header.CustomerName, constraint.Required()); err != nil {
		return ErrCustomerRequired
	}
	if err := e.header.Validate(); err != nil {
		return err
	}
	first := e.id == NewOrderID
	o := Order{ID: e.id, Header: e.header, GrandTotal: e.lines.Total(), LastModified: now()}
	err := e.storage.InTx(ctx, func(tx TxStorage) error {
		if first {
			id, err := tx.InsertOrder(ctx, o)
			if err != nil {
				return fmt.Errorf("insert order: %w", err)
			}
			o.ID = id
		} else if err := tx.UpdateOrder(ctx, o); err != nil {
			return fmt.Errorf("update order %d: %w", o.ID, err)
		}
		return e.lines.Commit(ctx, tx.Lines(o.ID))
	})
	if err != nil {
		return err
	}
	e.id = o.ID
	e.lines.orderID = o.ID
	if err := e.lines.RefreshProducts(ctx); err != nil {
		return err
	}
	if first {
		e.publish(ctx, EventAdded)
	}
	e.publish(ctx, EventSaved)
	return nil
}

// Remove deletes the order with its lines. Removing an unsaved order only ends the session.
func (e *Editor) Remove(ctx context.Context) error {
	if e.id != NewOrderID {
		err := e.storage.InTx(ctx, func(tx TxStorage) error {
			return tx.DeleteOrder(ctx, e.id)
		})
		if err != nil {
			return fmt.Errorf("remove order %d: %w", e.id, err)
		}
	}
	e.publish(ctx, EventRemoved)
	return nil
}

func (e *Editor) publish(ctx context.Context, kind EventKind) {
	ev := Event{Kind: kind, ID: e.id, Editor: e}
	for _, fn := range e.observers {
		fn(ctx, ev)
	}
}
