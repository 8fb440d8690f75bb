package routes

import (
	"strconv"
	"time"

	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/api/rest/v1/routes/auth"
	"github.com/seventv/chat-api/internal/api/rest/v1/routes/friendships"
	"github.com/seventv/chat-api/internal/api/rest/v1/routes/messages"
	"github.com/seventv/chat-api/internal/api/rest/v1/routes/rooms"
	"github.com/seventv/chat-api/internal/api/rest/v1/routes/users"
	"github.com/seventv/chat-api/internal/global"
)

var uptime = time.Now()

type Route struct {
	Ctx global.Context
}

func New(gCtx global.Context) rest.Route {
	return &Route{gCtx}
}

func (r *Route) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/v1",
		Method: rest.GET,
		Children: []rest.Route{
			auth.New(r.Ctx),
			users.New(r.Ctx),
			friendships.New(r.Ctx),
			rooms.New(r.Ctx),
			messages.New(r.Ctx),
		},
		Middleware: []rest.Middleware{},
	}
}

func (r *Route) Handler(ctx *rest.Ctx) rest.APIError {
	return ctx.JSON(rest.OK, HealthResponse{
		Online: true,
		Uptime: strconv.Itoa(int(uptime.UnixMilli())),
	})
}

type HealthResponse struct {
	Online bool   `json:"online"`
	Uptime string `json:"uptime"`
}
