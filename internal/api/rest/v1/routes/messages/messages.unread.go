package messages

import (
	"github.com/seventv/chat-api/internal/api/rest/middleware"
	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
)

type unreadRoute struct {
	Ctx global.Context
}

func newUnread(gctx global.Context) rest.Route {
	return &unreadRoute{gctx}
}

func (r *unreadRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "/unread",
		Method:   rest.GET,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx, true),
		},
	}
}

// Handler returns the actor's unread counter per room.
func (r *unreadRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, _ := ctx.GetActor()

	unread, err := r.Ctx.Inst().Query.UnreadCounts(ctx, actor.ID)
	if err != nil {
		return errors.From(err)
	}

	result := make(map[string]int32, len(unread))
	for roomID, count := range unread {
		result[roomID.Hex()] = count
	}

	return ctx.JSON(rest.OK, result)
}
