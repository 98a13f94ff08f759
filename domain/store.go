package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoreStatus enumerates the lifecycle states of a store.
type StoreStatus string

const (
	StoreStatusRegistered StoreStatus = "REGISTERED"
	StoreStatusSuspended  StoreStatus = "SUSPENDED"
	StoreStatusDeleted    StoreStatus = "DELETED"
)

const maxStoreNameLength = 100

// StoreRating is the 1:1 sub-entity owned by a store. It is created with the
// store and never mutated outside the store lifecycle.
type StoreRating struct {
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	LaunchedAt    time.Time `json:"launched_at"`
}

// Store is the aggregate root. Transitions never mutate the receiver; each
// returns a new value carrying the original audit timestamps.
type Store struct {
	ID          string      `json:"id"`
	OwnerUserID string      `json:"owner_user_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Status      StoreStatus `json:"status"`
	HiddenAt    *time.Time  `json:"hidden_at,omitempty"`
	DeletedAt   *time.Time  `json:"deleted_at,omitempty"`
	Rating      StoreRating `json:"rating"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ValidateStoreName enforces the name invariant: non-blank, at most 100 characters.
func ValidateStoreName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidStoreName
	}
	if len([]rune(name)) > maxStoreNameLength {
		return ErrInvalidStoreName
	}
	return nil
}

// NewStore builds a freshly registered store together with its rating.
// created_at/updated_at are left zero; the persistence layer assigns them.
func NewStore(ownerUserID, name, description string, now time.Time) (*Store, error) {
	if err := ValidateStoreName(name); err != nil {
		return nil, err
	}
	return &Store{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        name,
		Description: description,
		Status:      StoreStatusRegistered,
		Rating: StoreRating{
			LaunchedAt: now,
		},
	}, nil
}

// Snapshot captures the business fields an update can touch.
func (s Store) Snapshot() StoreSnapshot {
	return StoreSnapshot{
		Name:        s.Name,
		Description: s.Description,
		Status:      s.Status,
	}
}

func (s Store) IsDeleted() bool {
	return s.Status == StoreStatusDeleted
}

// EnsureUpdatable applies the status transition table for info updates.
func (s Store) EnsureUpdatable() error {
	switch s.Status {
	case StoreStatusSuspended:
		return ErrCannotUpdateSuspendedStore
	case StoreStatusDeleted:
		return ErrCannotUpdateDeletedStore
	default:
		return nil
	}
}

// UpdateInfo returns a new store with the given name and description. When
// both equal the current values the original store is returned with a nil
// event; no-op updates must not produce audit records or events.
func (s Store) UpdateInfo(name, description string, now time.Time) (Store, *StoreInfoUpdated, error) {
	if err := ValidateStoreName(name); err != nil {
		return s, nil, err
	}
	if s.Name == name && s.Description == description {
		return s, nil, nil
	}

	next := s
	next.Name = name
	next.Description = description

	event := &StoreInfoUpdated{
		StoreID:     s.ID,
		OwnerUserID: s.OwnerUserID,
		Before:      s.Snapshot(),
		After:       next.Snapshot(),
		OccurredAt:  now,
	}
	return next, event, nil
}

// Suspend hides the store from the storefront. Deleting wins over suspension:
// a deleted store can no longer be suspended.
func (s Store) Suspend(now time.Time) (Store, *StoreSuspended, error) {
	switch s.Status {
	case StoreStatusDeleted:
		return s, nil, ErrStoreAlreadyDeleted
	case StoreStatusSuspended:
		return s, nil, ErrStoreAlreadySuspended
	}

	next := s
	next.Status = StoreStatusSuspended
	next.HiddenAt = &now

	event := &StoreSuspended{
		StoreID:     s.ID,
		OwnerUserID: s.OwnerUserID,
		StoreName:   s.Name,
		OccurredAt:  now,
	}
	return next, event, nil
}

// Delete soft-deletes the store. Delete is never a no-op: a second call fails.
func (s Store) Delete(now time.Time) (Store, *StoreDeleted, error) {
	if s.Status == StoreStatusDeleted {
		return s, nil, ErrStoreAlreadyDeleted
	}

	next := s
	next.Status = StoreStatusDeleted
	next.DeletedAt = &now

	event := &StoreDeleted{
		StoreID:     s.ID,
		OwnerUserID: s.OwnerUserID,
		StoreName:   s.Name,
		OccurredAt:  now,
	}
	return next, event, nil
}

// CreatedEvent builds the registration event. It may only be called once the
// aggregate has been assigned its id.
func (s Store) CreatedEvent(now time.Time) (*StoreCreated, error) {
	if s.ID == "" {
		return nil, ErrStoreIDUnassigned
	}
	return &StoreCreated{
		StoreID:     s.ID,
		OwnerUserID: s.OwnerUserID,
		StoreName:   s.Name,
		Description: s.Description,
		OccurredAt:  now,
	}, nil
}
