package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JWTClaimUser struct {
	UserID string `json:"u"`

	jwt.RegisteredClaims
}

func (a *authorizer) SignJWT(claim jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)

	return token.SignedString(utils.S2B(a.JWTSecret))
}

func (a *authorizer) VerifyJWT(token string, out jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		token,
		out,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("bad jwt signing method, expected HMAC but got %v", t.Header["alg"])
			}

			return utils.S2B(a.JWTSecret), nil
		},
	)
}

func (a *authorizer) CreateAccessToken(targetID primitive.ObjectID) (string, time.Time, error) {
	expireAt := time.Now().Add(a.TokenDuration)

	token, err := a.SignJWT(&JWTClaimUser{
		UserID: targetID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "chat-api",
		},
	})

	return token, expireAt, err
}

func (a *authorizer) VerifyAccessToken(token string) (primitive.ObjectID, error) {
	claims := &JWTClaimUser{}

	result, err := a.VerifyJWT(token, claims)
	if err != nil || !result.Valid {
		return primitive.NilObjectID, errors.ErrUnauthorized().SetDetail("Invalid Token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, errors.ErrUnauthorized().SetDetail("Invalid Token")
	}

	return userID, nil
}
