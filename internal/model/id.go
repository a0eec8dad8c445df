package model

import "github.com/google/uuid"

// NovoID returns a random identifier for records created outside the database
// default (imports, backup restore).
func NovoID() uuid.UUID { return uuid.New() }
