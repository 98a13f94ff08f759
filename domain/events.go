package domain

import "time"

// EventKind identifies a domain event variant on the wire and in audits.
type EventKind string

const (
	EventStoreCreated     EventKind = "STORE_CREATED"
	EventStoreInfoUpdated EventKind = "STORE_INFO_UPDATED"
	EventStoreSuspended   EventKind = "STORE_SUSPENDED"
	EventStoreDeleted     EventKind = "STORE_DELETED"
)

// StoreSnapshot carries the mutable business fields of a store at a point in time.
type StoreSnapshot struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      StoreStatus `json:"status"`
}

// Event is a lifecycle fact produced by exactly one successful aggregate
// transition. Events are ephemeral values: the audit recorder and the event
// publisher are their only consumers.
type Event interface {
	Kind() EventKind
	// PartitionKey is the broker ordering key; always the store id so events
	// of one store stay ordered relative to each other.
	PartitionKey() string
	Occurred() time.Time
}

type StoreCreated struct {
	StoreID     string
	OwnerUserID string
	StoreName   string
	Description string
	OccurredAt  time.Time
}

func (e *StoreCreated) Kind() EventKind      { return EventStoreCreated }
func (e *StoreCreated) PartitionKey() string { return e.StoreID }
func (e *StoreCreated) Occurred() time.Time  { return e.OccurredAt }

type StoreInfoUpdated struct {
	StoreID     string
	OwnerUserID string
	Before      StoreSnapshot
	After       StoreSnapshot
	OccurredAt  time.Time
}

func (e *StoreInfoUpdated) Kind() EventKind      { return EventStoreInfoUpdated }
func (e *StoreInfoUpdated) PartitionKey() string { return e.StoreID }
func (e *StoreInfoUpdated) Occurred() time.Time  { return e.OccurredAt }

// ChangedFields lists the snapshot fields that actually differ, in a stable order.
func (e *StoreInfoUpdated) ChangedFields() []string {
	var fields []string
	if e.Before.Name != e.After.Name {
		fields = append(fields, "name")
	}
	if e.Before.Description != e.After.Description {
		fields = append(fields, "description")
	}
	if e.Before.Status != e.After.Status {
		fields = append(fields, "status")
	}
	return fields
}

type StoreSuspended struct {
	StoreID     string
	OwnerUserID string
	StoreName   string
	OccurredAt  time.Time
}

func (e *StoreSuspended) Kind() EventKind      { return EventStoreSuspended }
func (e *StoreSuspended) PartitionKey() string { return e.StoreID }
func (e *StoreSuspended) Occurred() time.Time  { return e.OccurredAt }

type StoreDeleted struct {
	StoreID     string
	OwnerUserID string
	StoreName   string
	OccurredAt  time.Time
}

func (e *StoreDeleted) Kind() EventKind      { return EventStoreDeleted }
func (e *StoreDeleted) PartitionKey() string { return e.StoreID }
func (e *StoreDeleted) Occurred() time.Time  { return e.OccurredAt }
