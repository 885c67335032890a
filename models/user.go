package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Account is a login able to reach the protected API. A user-role account is
// always bound to one sub-district, its geographic scope.
type Account struct {
	ID           bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email        string         `bson:"email" json:"email"`
	PasswordHash string         `bson:"password" json:"-"` // never expose
	Role         Role           `bson:"role" json:"role"`
	SubDistrict  *bson.ObjectID `bson:"subDistrict,omitempty" json:"subDistrict,omitempty"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// AccountView is an account with its sub-district expanded.
type AccountView struct {
	Account         `bson:",inline"`
	SubDistrictInfo *SubDistrict `bson:"subDistrictInfo,omitempty" json:"subDistrictInfo,omitempty"`
}

// RevokedToken is an entry of the revocation ledger. The store drops it once
// ExpiresAt passes (TTL index).
type RevokedToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Token     string        `bson:"token" json:"token"`
	ExpiresAt time.Time     `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
