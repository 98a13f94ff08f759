package transport

import (
	"time"

	json "github.com/goccy/go-json"

	"github.com/storelane/store-service/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// RatingResponse is the public projection of a store rating sub-entity.
type RatingResponse struct {
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	LaunchedAt    time.Time `json:"launched_at"`
}

// StoreResponse is the public projection of a store aggregate.
type StoreResponse struct {
	ID          string         `json:"id"`
	OwnerUserID string         `json:"owner_user_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Rating      RatingResponse `json:"rating"`
	HiddenAt    *time.Time     `json:"hidden_at,omitempty"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewStoreResponse converts a domain store into its API representation.
func NewStoreResponse(s domain.Store) StoreResponse {
	return StoreResponse{
		ID:          s.ID,
		OwnerUserID: s.OwnerUserID,
		Name:        s.Name,
		Description: s.Description,
		Status:      string(s.Status),
		Rating: RatingResponse{
			AverageRating: s.Rating.AverageRating,
			ReviewCount:   s.Rating.ReviewCount,
			LaunchedAt:    s.Rating.LaunchedAt,
		},
		HiddenAt:    s.HiddenAt,
		DeletedAt:   s.DeletedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// NewStoreListResponse converts a slice of stores.
func NewStoreListResponse(stores []domain.Store) []StoreResponse {
	out := make([]StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, NewStoreResponse(s))
	}
	return out
}

// AuditResponse is the public projection of an audit record.
type AuditResponse struct {
	ID            string                 `json:"id"`
	StoreID       string                 `json:"store_id"`
	EventType     string                 `json:"event_type"`
	Status        *string                `json:"status,omitempty"`
	ChangeSummary string                 `json:"change_summary"`
	ActorUserID   *string                `json:"actor_user_id,omitempty"`
	RecordedAt    time.Time              `json:"recorded_at"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// NewAuditResponse converts a domain audit record into its API representation.
func NewAuditResponse(a domain.StoreAudit) AuditResponse {
	resp := AuditResponse{
		ID:            a.ID,
		StoreID:       a.StoreID,
		EventType:     string(a.EventType),
		ChangeSummary: a.ChangeSummary,
		ActorUserID:   a.ActorUserID,
		RecordedAt:    a.RecordedAt,
		Metadata:      a.Metadata,
	}
	if a.StatusSnapshot != nil {
		s := string(*a.StatusSnapshot)
		resp.Status = &s
	}
	return resp
}

// NewAuditListResponse converts a slice of audit records.
func NewAuditListResponse(audits []domain.StoreAudit) []AuditResponse {
	out := make([]AuditResponse, 0, len(audits))
	for _, a := range audits {
		out = append(out, NewAuditResponse(a))
	}
	return out
}
