package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Authorizer interface {
	SignJWT(claim jwt.Claims) (string, error)
	VerifyJWT(token string, out jwt.Claims) (*jwt.Token, error)
	CreateAccessToken(targetID primitive.ObjectID) (string, time.Time, error)
	// VerifyAccessToken validates a bearer credential and yields the user it
	// was minted for.
	VerifyAccessToken(token string) (primitive.ObjectID, error)
}

type authorizer struct {
	JWTSecret     string
	TokenDuration time.Duration
}

func New(opt AuthorizerOptions) Authorizer {
	dur := opt.TokenDuration
	if dur == 0 {
		dur = time.Hour * 24 * 30
	}

	return &authorizer{
		JWTSecret:     opt.JWTSecret,
		TokenDuration: dur,
	}
}

type AuthorizerOptions struct {
	JWTSecret     string
	TokenDuration time.Duration
}
