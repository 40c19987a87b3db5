package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Touch refreshes the update timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AggregateRoot collects domain events raised while the aggregate is mutated.
// Services publish them after the write is committed.
type AggregateRoot struct {
	BaseEntity
	domainEvents []DomainEvent `gorm:"-"`
}

// NewAggregateRoot creates a new aggregate root with a generated ID
func NewAggregateRoot() AggregateRoot {
	return AggregateRoot{BaseEntity: NewBaseEntity()}
}

// AddDomainEvent adds a domain event to be published
func (a *AggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *AggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *AggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
