package entity

import "time"

// EventType names the kind of change a UserEvent describes.
type EventType string

const (
	EventUserCreated       EventType = "USER_CREATED"
	EventUserUpdated       EventType = "USER_UPDATED"
	EventUserDeleted       EventType = "USER_DELETED"
	EventUserStatusChanged EventType = "USER_STATUS_CHANGED"
)

// SystemActor is recorded as PerformedBy while requests carry no identity.
const SystemActor = "system"

// UserEvent is the change notification emitted after a successful mutation.
// It carries a snapshot of the user at the moment of the change and is never persisted.
type UserEvent struct {
	EventID        string     `json:"eventId"`
	EventType      EventType  `json:"eventType"`
	UserID         int64      `json:"userId"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Role           UserRole   `json:"role"`
	Status         UserStatus `json:"status"`
	EventTimestamp time.Time  `json:"eventTimestamp"`
	PerformedBy    string     `json:"performedBy"`
}

// NewUserEvent snapshots u into an event of the given type.
func NewUserEvent(id string, t EventType, u *User, at time.Time) UserEvent {
	return UserEvent{
		EventID:        id,
		EventType:      t,
		UserID:         u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		Status:         u.Status,
		EventTimestamp: at,
		PerformedBy:    SystemActor,
	}
}
