package auth

import (
	"encoding/json"

	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/chat-api/internal/api/rest/middleware"
	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
	"golang.org/x/crypto/bcrypt"
)

type registerRoute struct {
	gctx global.Context
}

func newRegister(gctx global.Context) rest.Route {
	return &registerRoute{gctx}
}

func (r *registerRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "/register",
		Method:   rest.POST,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.RateLimit(r.gctx, "auth", r.gctx.Config().Limits.Buckets.Auth),
		},
	}
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AvatarURL string `json:"avatar_url"`
}

func (r *registerRoute) Handler(ctx *rest.Ctx) rest.APIError {
	body := registerRequest{}
	if err := json.Unmarshal(ctx.Request.Body(), &body); err != nil {
		return errors.ErrInvalidRequest().SetDetail("Invalid Request Body")
	}

	if body.Username == "" || body.Email == "" {
		return errors.ErrMissingRequiredField().SetFields(errors.Fields{"fields": "username, email"})
	}

	if len(body.Password) < 8 {
		return errors.ErrInvalidRequest().SetDetail("Password Too Short")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		ctx.Log().Errorw("auth, couldn't hash password", "error", err)

		return errors.ErrInternalServerError()
	}

	user := structures.User{
		Username:     body.Username,
		Email:        body.Email,
		PasswordHash: string(hash),
		AvatarURL:    body.AvatarURL,
	}

	if err := r.gctx.Inst().Mutate.CreateUser(ctx, &user); err != nil {
		return errors.From(err)
	}

	token, expireAt, err := r.gctx.Inst().Auth.CreateAccessToken(user.ID)
	if err != nil {
		ctx.Log().Errorw("auth, couldn't sign access token", "error", err)

		return errors.ErrInternalServerError()
	}

	return ctx.JSON(rest.Created, TokenResponse{
		Token:     token,
		ExpiresAt: expireAt.UnixMilli(),
		UserID:    user.ID.Hex(),
	})
}
