package friendships

import (
	"github.com/seventv/chat-api/data/model"
	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/chat-api/internal/api/rest/middleware"
	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/utils"
)

type pendingRoute struct {
	Ctx global.Context
}

func newPending(gctx global.Context) rest.Route {
	return &pendingRoute{gctx}
}

func (r *pendingRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "/pending",
		Method:   rest.GET,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx, true),
		},
	}
}

// Handler lists friend requests awaiting the actor's response.
func (r *pendingRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, _ := ctx.GetActor()

	pending, err := r.Ctx.Inst().Query.PendingFriendRequests(ctx, actor.ID).Items()
	if err != nil {
		return errors.From(err)
	}

	result := utils.Map(pending, func(fs structures.Friendship) model.FriendshipModel {
		return r.Ctx.Inst().Modelizer.Friendship(fs)
	})

	return ctx.JSON(rest.OK, result)
}
