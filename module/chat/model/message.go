package model

import (
	"time"

	mgo "ChatLink/service/mgo"

	"go.mongodb.org/mongo-driver/mongo"
)

// Message is one direct message. Created exactly once by the dispatcher,
// immutable afterwards. Content is stored trimmed. Timestamp equals
// CreateTime in this design; the distinction is kept for the wire shape.
type Message struct {
	MsgID    string `bson:"msg_id" json:"id"` // snowflake string
	SenderID string `bson:"sender_id" json:"senderId"`
	RecvID   string `bson:"recv_id" json:"receiverId"`
	Content  string `bson:"content" json:"content"`

	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
	CreateTime time.Time `bson:"create_time" json:"createdAt"`
}

func (m *Message) GetTableName() string {
	return "message"
}

func (m *Message) Collection() *mongo.Collection {
	return mgo.GetDB().Collection(m.GetTableName())
}
