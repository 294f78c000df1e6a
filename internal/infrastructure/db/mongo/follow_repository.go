package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chirpnet/social-api/internal/core/domain"
)

const (
	followsCollection = "follows"
	followEdgeIndex   = "follows_edge_unique"
)

// FollowRepository stores one document per follow edge. Following and
// follower sets are two views of the same documents, so follow and unfollow
// are each a single-document write with nothing to keep in sync.
type FollowRepository struct {
	coll *mongo.Collection
}

func NewFollowRepository(db *mongo.Database) *FollowRepository {
	return &FollowRepository{coll: db.Collection(followsCollection)}
}

type followDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	FollowerID primitive.ObjectID `bson:"follower_id"`
	FolloweeID primitive.ObjectID `bson:"followee_id"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func edgeIDs(followerID, followeeID string) (primitive.ObjectID, primitive.ObjectID, error) {
	follower, err := primitive.ObjectIDFromHex(followerID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, domain.ErrUserNotFound
	}
	followee, err := primitive.ObjectIDFromHex(followeeID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, domain.ErrUserNotFound
	}
	return follower, followee, nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	follower, followee, err := edgeIDs(followerID, followeeID)
	if err != nil {
		return false, err
	}

	err = r.coll.FindOne(ctx,
		bson.M{"follower_id": follower, "followee_id": followee},
		options.FindOne().SetProjection(bson.M{"_id": 1}),
	).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	default:
		return false, fmt.Errorf("read follow edge: %w", err)
	}
}

// Follow inserts the edge; the unique index turns a concurrent duplicate
// insert into domain.ErrFollowConflict.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	follower, followee, err := edgeIDs(followerID, followeeID)
	if err != nil {
		return err
	}
	if follower == followee {
		return domain.ErrSelfFollow
	}

	_, err = r.coll.InsertOne(ctx, followDoc{
		FollowerID: follower,
		FolloweeID: followee,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrFollowConflict
		}
		return fmt.Errorf("insert follow edge: %w", err)
	}
	return nil
}

// Unfollow deletes the edge; deleting nothing means another caller removed it
// first.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	follower, followee, err := edgeIDs(followerID, followeeID)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"follower_id": follower, "followee_id": followee})
	if err != nil {
		return fmt.Errorf("delete follow edge: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFollowConflict
	}
	return nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "followee_id", userID)
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "follower_id", userID)
}

func (r *FollowRepository) count(ctx context.Context, field, userID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{field: oid})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", field, err)
	}
	return n, nil
}

func (r *FollowRepository) Followers(ctx context.Context, userID string) ([]string, error) {
	return r.list(ctx, "followee_id", "follower_id", userID)
}

func (r *FollowRepository) Following(ctx context.Context, userID string) ([]string, error) {
	return r.list(ctx, "follower_id", "followee_id", userID)
}

// list returns the other end of every edge whose matchField is userID, oldest
// edge first.
func (r *FollowRepository) list(ctx context.Context, matchField, otherField, userID string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	opts := options.Find().
		SetProjection(bson.M{otherField: 1}).
		SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{matchField: oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", otherField, err)
	}
	defer cur.Close(ctx)

	var docs []followDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list %s: decode: %w", otherField, err)
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		if otherField == "follower_id" {
			ids = append(ids, d.FollowerID.Hex())
		} else {
			ids = append(ids, d.FolloweeID.Hex())
		}
	}
	return ids, nil
}

// EnsureIndexes creates the unique edge index and the reverse lookup index.
func (r *FollowRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "follower_id", Value: 1},
				{Key: "followee_id", Value: 1},
			},
			Options: options.Index().SetName(followEdgeIndex).SetUnique(true),
		},
		{Keys: bson.D{{Key: "followee_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("follows indexes: %w", err)
	}
	return nil
}
