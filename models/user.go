package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Social holds the nested social-handle fields of a profile.
type Social struct {
	Github   string `bson:"github" json:"github"`
	Linkedin string `bson:"linkedin" json:"linkedin"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash *string            `bson:"passwordHash,omitempty" json:"-"`
	PhotoURL     string             `bson:"photoURL" json:"photoURL"`
	Bio          string             `bson:"bio" json:"bio"`
	Phone        string             `bson:"phone" json:"phone"`
	Location     string             `bson:"location" json:"location"`
	Occupation   string             `bson:"occupation" json:"occupation"`
	Company      string             `bson:"company" json:"company"`
	Website      string             `bson:"website" json:"website"`
	Social       Social             `bson:"social" json:"social"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`

	ResetToken     string `bson:"resetToken,omitempty" json:"-"`
	ResetExpiresAt int64  `bson:"resetExpiresAt,omitempty" json:"-"`
}
