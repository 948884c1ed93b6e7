package message

import (
	"context"

	"ChatLink/module/chat/model"

	perrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	m := model.Message{}
	return &Store{coll: db.Collection(m.GetTableName())}
}

// Insert writes one message document. The dispatcher calls this before any
// fan-out; there is no update path, messages are immutable.
func (s *Store) Insert(ctx context.Context, msg *model.Message) error {
	_, err := s.coll.InsertOne(ctx, msg)
	return perrors.Wrap(err, "insert message")
}

// ListConversation returns the full history between two users, both
// directions, oldest first. This is the path through which an offline
// recipient eventually sees messages that were never fanned out.
func (s *Store) ListConversation(ctx context.Context, a, b string) ([]model.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "recv_id": b},
		bson.M{"sender_id": b, "recv_id": a},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, perrors.Wrap(err, "find conversation")
	}
	defer cur.Close(ctx)

	var out []model.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, perrors.Wrap(err, "decode conversation")
	}
	return out, nil
}
