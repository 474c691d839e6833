package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Team struct {
	bun.BaseModel `bun:"table:teams"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	PublicKey string    `bun:"public_key,nullzero,unique" json:"publicKey,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

type CreateTeamRequest struct {
	Name      string `json:"name"`
	PublicKey string `json:"publicKey"`
}
