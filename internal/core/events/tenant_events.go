package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserStatusToggled   = "user.status_toggled"
	EventTypeUserPasswordChanged = "user.password_changed"
	EventTypeCompanyDeleted      = "company.deleted"
)

type UserStatusToggledEvent struct {
	BaseEvent
	UserID  int64 `json:"user_id"`
	ActorID int64 `json:"actor_id"`
	Active  bool  `json:"active"`
}

func NewUserStatusToggledEvent(userID, actorID int64, active bool) *UserStatusToggledEvent {
	return &UserStatusToggledEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserStatusToggled,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":  userID,
				"actor_id": actorID,
				"active":   active,
			},
		},
		UserID:  userID,
		ActorID: actorID,
		Active:  active,
	}
}

type UserPasswordChangedEvent struct {
	BaseEvent
	UserID  int64 `json:"user_id"`
	ActorID int64 `json:"actor_id"`
}

func NewUserPasswordChangedEvent(userID, actorID int64) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserPasswordChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":  userID,
				"actor_id": actorID,
			},
		},
		UserID:  userID,
		ActorID: actorID,
	}
}

type CompanyDeletedEvent struct {
	BaseEvent
	CompanyID int64  `json:"company_id"`
	ParentID  *int64 `json:"parent_id,omitempty"`
	ActorID   int64  `json:"actor_id"`
}

func NewCompanyDeletedEvent(companyID int64, parentID *int64, actorID int64) *CompanyDeletedEvent {
	return &CompanyDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCompanyDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"company_id": companyID,
				"parent_id":  parentID,
				"actor_id":   actorID,
			},
		},
		CompanyID: companyID,
		ParentID:  parentID,
		ActorID:   actorID,
	}
}
