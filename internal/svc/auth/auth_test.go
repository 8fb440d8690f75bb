package auth

import (
	"testing"
	"time"

	"github.com/seventv/chat-api/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	inst := New(AuthorizerOptions{JWTSecret: "test-secret"})
	userID := primitive.NewObjectID()

	token, expireAt, err := inst.CreateAccessToken(userID)
	testutil.IsNil(t, err, "token created")
	testutil.Assert(t, true, expireAt.After(time.Now()), "expiry in the future")

	got, err := inst.VerifyAccessToken(token)
	testutil.IsNil(t, err, "token verifies")
	testutil.Assert(t, userID, got, "user id round-trips")
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	t.Parallel()

	signer := New(AuthorizerOptions{JWTSecret: "secret-a"})
	verifier := New(AuthorizerOptions{JWTSecret: "secret-b"})

	token, _, err := signer.CreateAccessToken(primitive.NewObjectID())
	testutil.IsNil(t, err, "token created")

	_, err = verifier.VerifyAccessToken(token)
	testutil.IsNotNil(t, err, "foreign token rejected")
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	inst := New(AuthorizerOptions{
		JWTSecret:     "test-secret",
		TokenDuration: -time.Hour,
	})

	token, _, err := inst.CreateAccessToken(primitive.NewObjectID())
	testutil.IsNil(t, err, "token created")

	_, err = inst.VerifyAccessToken(token)
	testutil.IsNotNil(t, err, "expired token rejected")
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	inst := New(AuthorizerOptions{JWTSecret: "test-secret"})

	_, err := inst.VerifyAccessToken("not-a-jwt")
	testutil.IsNotNil(t, err, "garbage rejected")
}
