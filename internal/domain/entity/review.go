package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review belongs to exactly one tour and one user; the (user, tour) pair is
// unique, enforced by an index.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Review    string             `bson:"review" json:"review" binding:"required"`
	Rating    float64            `bson:"rating" json:"rating" binding:"required,gte=1,lte=5"`
	Tour      primitive.ObjectID `bson:"tour" json:"tour"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	// Author is filled on single-review reads.
	Author *User `bson:"-" json:"author,omitempty"`
}
