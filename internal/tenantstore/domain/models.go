package domain

import "time"

// Audience is the coarse customer segment a push message targets. It is
// stored as metadata only; no delivery path filters by it.
type Audience string

const (
	AudienceAll         Audience = "all"
	AudienceInactive7d  Audience = "inactive_7d"
	AudienceInactive30d Audience = "inactive_30d"
)

func (a Audience) Valid() bool {
	switch a {
	case AudienceAll, AudienceInactive7d, AudienceInactive30d:
		return true
	default:
		return false
	}
}

type ScheduledStatus string

const (
	StatusPending   ScheduledStatus = "pending"
	StatusSent      ScheduledStatus = "sent"
	StatusCancelled ScheduledStatus = "cancelled"
)

func (s ScheduledStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSent, StatusCancelled:
		return true
	default:
		return false
	}
}

// Customer is append-only in practice: there is no delete operation.
type Customer struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	BirthDate  string     `json:"birth_date"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

type Wallet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Active    bool      `json:"active"`
	ImageRef  string    `json:"image_ref"`
}

// ImmediatePush is a write-only log entry; nothing in scope reads it back
// to drive behavior.
type ImmediatePush struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	Audience Audience  `json:"audience"`
	SentAt   time.Time `json:"sent_at"`
}

type ScheduledPush struct {
	ID          string          `json:"id"`
	Message     string          `json:"message"`
	Audience    Audience        `json:"audience"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Status      ScheduledStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GeofenceConfig is a per-tenant singleton, replaced wholesale on save.
type GeofenceConfig struct {
	Message      string  `json:"message"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters int     `json:"radius_meters"`
}

// ScheduledPushPatch names the fields a caller may change. Open-ended merges
// would let callers inject unexpected fields, so the patch is explicit.
type ScheduledPushPatch struct {
	Message     *string          `json:"message,omitempty"`
	Audience    *Audience        `json:"audience,omitempty"`
	ScheduledAt *time.Time       `json:"scheduled_at,omitempty"`
	Status      *ScheduledStatus `json:"status,omitempty"`
}

func (p ScheduledPushPatch) Empty() bool {
	return p.Message == nil && p.Audience == nil && p.ScheduledAt == nil && p.Status == nil
}

type WalletPatch struct {
	Name     *string `json:"name,omitempty"`
	Active   *bool   `json:"active,omitempty"`
	ImageRef *string `json:"image_ref,omitempty"`
}

func (p WalletPatch) Empty() bool {
	return p.Name == nil && p.Active == nil && p.ImageRef == nil
}
