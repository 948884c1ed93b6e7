package model

import (
	"time"

	mgo "ChatLink/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// User is the user master record. The presence pair (is_online/last_seen)
// is written only by the presence manager; everything else is set at
// account creation.
type User struct {
	UserID string `bson:"user_id" json:"id"` // global, immutable (primary key)
	Name   string `bson:"name" json:"name"`  // display name
	Email  string `bson:"email,omitempty" json:"email,omitempty"`

	PasswordHash string `bson:"password_hash,omitempty" json:"-"` // never serialized

	IsOnline bool      `bson:"is_online" json:"isOnline"`
	LastSeen time.Time `bson:"last_seen" json:"lastSeen"`

	CreateTime time.Time `bson:"create_time" json:"-"`
	UpdateTime time.Time `bson:"update_time" json:"-"`
}

func (u *User) GetTableName() string {
	return "user"
}

func (u *User) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(u.GetTableName())
}
