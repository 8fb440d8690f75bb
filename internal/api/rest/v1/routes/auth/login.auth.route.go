package auth

import (
	"encoding/json"

	"github.com/seventv/chat-api/internal/api/rest/middleware"
	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
	"golang.org/x/crypto/bcrypt"
)

type loginRoute struct {
	gctx global.Context
}

func newLogin(gctx global.Context) rest.Route {
	return &loginRoute{gctx}
}

func (r *loginRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "/login",
		Method:   rest.POST,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.RateLimit(r.gctx, "auth", r.gctx.Config().Limits.Buckets.Auth),
		},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRoute) Handler(ctx *rest.Ctx) rest.APIError {
	body := loginRequest{}
	if err := json.Unmarshal(ctx.Request.Body(), &body); err != nil {
		return errors.ErrInvalidRequest().SetDetail("Invalid Request Body")
	}

	if body.Email == "" || body.Password == "" {
		return errors.ErrMissingRequiredField().SetFields(errors.Fields{"fields": "email, password"})
	}

	user, err := r.gctx.Inst().Query.UserByEmail(ctx, body.Email)
	if err != nil {
		// do not leak whether the account exists
		return errors.ErrUnauthorized().SetDetail("Invalid Credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		return errors.ErrUnauthorized().SetDetail("Invalid Credentials")
	}

	token, expireAt, err := r.gctx.Inst().Auth.CreateAccessToken(user.ID)
	if err != nil {
		ctx.Log().Errorw("auth, couldn't sign access token", "error", err)

		return errors.ErrInternalServerError()
	}

	return ctx.JSON(rest.OK, TokenResponse{
		Token:     token,
		ExpiresAt: expireAt.UnixMilli(),
		UserID:    user.ID.Hex(),
	})
}
