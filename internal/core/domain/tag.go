package domain

import (
	"errors"
	"time"
)

var ErrTagNotFound = errors.New("tag not found")

// Tag labels zero or more products. Names are unique.
type Tag struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
