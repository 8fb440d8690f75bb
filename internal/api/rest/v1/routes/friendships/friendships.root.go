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

type Route struct {
	Ctx global.Context
}

func New(gCtx global.Context) rest.Route {
	return &Route{gCtx}
}

func (r *Route) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/friendships",
		Method: rest.GET,
		Children: []rest.Route{
			newCreate(r.Ctx),
			newPending(r.Ctx),
			newResolve(r.Ctx, structures.FriendshipStatusAccepted),
			newResolve(r.Ctx, structures.FriendshipStatusRejected),
		},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx, true),
		},
	}
}

// Handler lists the actor's accepted friends.
func (r *Route) Handler(ctx *rest.Ctx) rest.APIError {
	actor, _ := ctx.GetActor()

	friends, err := r.Ctx.Inst().Query.Friends(ctx, actor.ID).Items()
	if err != nil {
		return errors.From(err)
	}

	result := utils.Map(friends, func(u structures.User) model.UserModel {
		return r.Ctx.Inst().Modelizer.User(u)
	})

	return ctx.JSON(rest.OK, result)
}
