package auth

import (
	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
)

type Route struct {
	gctx global.Context
}

func New(gctx global.Context) rest.Route {
	return &Route{gctx}
}

func (r *Route) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/auth",
		Method: rest.GET,
		Children: []rest.Route{
			newRegister(r.gctx),
			newLogin(r.gctx),
		},
		Middleware: []rest.Middleware{},
	}
}

func (r *Route) Handler(ctx *rest.Ctx) rest.APIError {
	return errors.ErrUnknownRoute()
}

// TokenResponse is the payload returned by the register and login routes.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	UserID    string `json:"user_id"`
}
