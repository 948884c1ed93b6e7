package service

import (
	"context"
	"time"

	"ChatLink/module/user/model"
	"ChatLink/tools/errs"

	perrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	u := model.User{}
	return &Store{coll: db.Collection(u.GetTableName())}
}

func (s *Store) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var u model.User
	err := s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&u)
	if perrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrUserNotFound.WithDetail(userID)
	}
	if err != nil {
		return nil, perrors.Wrap(err, "find user")
	}
	return &u, nil
}

// ListOthers returns every user except selfID, password hash excluded,
// sorted by display name.
func (s *Store) ListOthers(ctx context.Context, selfID string) ([]model.User, error) {
	opts := options.Find().
		SetProjection(bson.M{"password_hash": 0}).
		SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{"user_id": bson.M{"$ne": selfID}}, opts)
	if err != nil {
		return nil, perrors.Wrap(err, "list users")
	}
	defer cur.Close(ctx)

	var out []model.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, perrors.Wrap(err, "decode users")
	}
	return out, nil
}

// UpdatePresence is the only writer of the is_online/last_seen pair.
func (s *Store) UpdatePresence(ctx context.Context, userID string, online bool, at time.Time) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{
			"is_online":   online,
			"last_seen":   at,
			"update_time": at,
		}},
	)
	return perrors.Wrap(err, "update presence")
}
