package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/chirpnet/social-api/internal/core/domain"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func duplicateKeyResponse(index string) bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error collection: test.coll index: " + index + " dup key",
	})
}

func TestUserRepository_Create(t *testing.T) {
	mt := newMockT(t)

	mt.Run("success", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := repo.Create(context.Background(), &domain.User{
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "hash",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(u.ID); err != nil {
			t.Fatalf("expected object id, got %q", u.ID)
		}
	})

	mt.Run("username taken", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		mt.AddMockResponses(duplicateKeyResponse(usernameIndex))

		_, err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "hash"})
		if !errors.Is(err, domain.ErrUsernameTaken) {
			t.Fatalf("expected ErrUsernameTaken, got %v", err)
		}
	})

	mt.Run("email taken", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		mt.AddMockResponses(duplicateKeyResponse(emailIndex))

		_, err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "hash"})
		if !errors.Is(err, domain.ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	mt.Run("unknown index", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		mt.AddMockResponses(duplicateKeyResponse("users_legacy_handle"))

		_, err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "hash"})
		if err == nil {
			t.Fatalf("expected error")
		}
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			t.Fatalf("unknown index must not be reported as a field collision, got %v", err)
		}
		if !mongo.IsDuplicateKeyError(err) {
			t.Fatalf("expected wrapped duplicate key error, got %v", err)
		}
	})

	mt.Run("missing hash", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		if _, err := repo.Create(context.Background(), &domain.User{Username: "alice"}); err == nil {
			t.Fatalf("expected error for empty hash")
		}
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	mt := newMockT(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "username", Value: "alice"},
			{Key: "email", Value: "alice@example.com"},
			{Key: "password_hash", Value: "hash"},
			{Key: "created_at", Value: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		}))

		u, err := repo.FindByID(context.Background(), oid.Hex())
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if u.ID != oid.Hex() || u.Username != "alice" || u.PasswordHash != "hash" {
			t.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		if _, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		if _, err := repo.FindByID(context.Background(), "not-an-id"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	mt := newMockT(t)

	mt.Run("swapped", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		if err := repo.UpdatePasswordHash(context.Background(), primitive.NewObjectID().Hex(), "old", "new"); err != nil {
			t.Fatalf("update: %v", err)
		}
	})

	mt.Run("stale hash", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.UpdatePasswordHash(context.Background(), primitive.NewObjectID().Hex(), "old", "new")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestUserRepository_UpdateProfile_UsernameTaken(t *testing.T) {
	mt := newMockT(t)

	mt.Run("duplicate", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.users index: " + usernameIndex + " dup key",
		}))

		name := "bob"
		_, err := repo.UpdateProfile(context.Background(), primitive.NewObjectID().Hex(), domain.ProfileUpdate{Username: &name})
		if !errors.Is(err, domain.ErrUsernameTaken) {
			t.Fatalf("expected ErrUsernameTaken, got %v", err)
		}
	})
}

func TestUserRepository_Sample(t *testing.T) {
	mt := newMockT(t)

	mt.Run("decodes sample", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: a}, {Key: "username", Value: "bob"}},
			bson.D{{Key: "_id", Value: b}, {Key: "username", Value: "carol"}},
		))

		users, err := repo.Sample(context.Background(), primitive.NewObjectID().Hex(), 10)
		if err != nil {
			t.Fatalf("sample: %v", err)
		}
		if len(users) != 2 || users[0].ID != a.Hex() || users[1].ID != b.Hex() {
			t.Fatalf("unexpected sample: %+v", users)
		}
	})

	mt.Run("zero size", func(mt *mtest.T) {
		repo := &UserRepository{coll: mt.Coll}
		users, err := repo.Sample(context.Background(), "", 0)
		if err != nil || len(users) != 0 {
			t.Fatalf("expected empty sample, got %v %v", users, err)
		}
	})
}

func TestFollowRepository_Follow(t *testing.T) {
	mt := newMockT(t)
	alice, bob := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	mt.Run("inserted", func(mt *mtest.T) {
		repo := &FollowRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		if err := repo.Follow(context.Background(), alice, bob); err != nil {
			t.Fatalf("follow: %v", err)
		}
	})

	mt.Run("already following", func(mt *mtest.T) {
		repo := &FollowRepository{coll: mt.Coll}
		mt.AddMockResponses(duplicateKeyResponse(followEdgeIndex))
		if err := repo.Follow(context.Background(), alice, bob); !errors.Is(err, domain.ErrFollowConflict) {
			t.Fatalf("expected ErrFollowConflict, got %v", err)
		}
	})

	mt.Run("self", func(mt *mtest.T) {
		repo := &FollowRepository{coll: mt.Coll}
		if err := repo.Follow(context.Background(), alice, alice); !errors.Is(err, domain.ErrSelfFollow) {
			t.Fatalf("expected ErrSelfFollow, got %v", err)
		}
	})
}

func TestFollowRepository_Unfollow(t *testing.T) {
	mt := newMockT(t)
	alice, bob := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	mt.Run("deleted", func(mt *mtest.T) {
		repo := &FollowRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		if err := repo.Unfollow(context.Background(), alice, bob); err != nil {
			t.Fatalf("unfollow: %v", err)
		}
	})

	mt.Run("nothing to delete", func(mt *mtest.T) {
		repo := &FollowRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		if err := repo.Unfollow(context.Background(), alice, bob); !errors.Is(err, domain.ErrFollowConflict) {
			t.Fatalf("expected ErrFollowConflict, got %v", err)
		}
	})
}

func TestFollowRepository_IsFollowingAndLists(t *testing.T) {
	mt := newMockT(t)
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("is following", func(mt *mtest.T) {
		repo := &FollowRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.follows", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}}))

		ok, err := repo.IsFollowing(context.Background(), alice.Hex(), bob.Hex())
		if err != nil || !ok {
			t.Fatalf("expected following, got %v %v", ok, err)
		}
	})

	mt.Run("not following", func(mt *mtest.T) {
		repo := &FollowRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.follows", mtest.FirstBatch))

		ok, err := repo.IsFollowing(context.Background(), alice.Hex(), bob.Hex())
		if err != nil || ok {
			t.Fatalf("expected not following, got %v %v", ok, err)
		}
	})

	mt.Run("following list", func(mt *mtest.T) {
		repo := &FollowRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.follows", mtest.FirstBatch,
			bson.D{{Key: "follower_id", Value: alice}, {Key: "followee_id", Value: bob}}))

		ids, err := repo.Following(context.Background(), alice.Hex())
		if err != nil {
			t.Fatalf("following: %v", err)
		}
		if len(ids) != 1 || ids[0] != bob.Hex() {
			t.Fatalf("unexpected following: %v", ids)
		}
	})

	mt.Run("count followers", func(mt *mtest.T) {
		repo := &FollowRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.follows", mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}}))

		n, err := repo.CountFollowers(context.Background(), bob.Hex())
		if err != nil || n != 3 {
			t.Fatalf("expected 3 followers, got %d %v", n, err)
		}
	})
}

func TestNotificationRepository_Insert(t *testing.T) {
	mt := newMockT(t)
	alice, bob := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	mt.Run("inserted", func(mt *mtest.T) {
		repo := &NotificationRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		n := &domain.Notification{From: alice, To: bob, Kind: domain.NotificationFollow}
		if err := repo.Insert(context.Background(), n); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if n.ID == "" {
			t.Fatalf("expected id to be assigned")
		}
	})

	mt.Run("unknown kind", func(mt *mtest.T) {
		repo := &NotificationRepository{coll: mt.Coll}
		n := &domain.Notification{From: alice, To: bob, Kind: "poke"}
		if err := repo.Insert(context.Background(), n); err == nil {
			t.Fatalf("expected error for unknown kind")
		}
	})
}
