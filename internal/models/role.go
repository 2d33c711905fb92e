package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// Canonical role names. Route declarations and token claims must go through
// these constants; the historical codebase mixed "admin" and "ADMIN" literals.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
	RoleManager  = "MANAGER"
)

// RoleMatches reports whether have is one of the allowed role names.
// Comparison is case-insensitive.
func RoleMatches(have string, allowed ...string) bool {
	for _, want := range allowed {
		if strings.EqualFold(have, want) {
			return true
		}
	}
	return false
}
