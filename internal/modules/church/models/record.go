// Package models holds the church records managed through the dashboard and
// the request payloads that create or edit them.
package models

import "github.com/google/uuid"

// Record is a row owned by one church.
type Record interface {
	GetID() uuid.UUID
	SetChurchID(id uuid.UUID)
}

// Input is a validated request payload that can be written onto a record.
type Input[T any] interface {
	Apply(dst *T) error
}
