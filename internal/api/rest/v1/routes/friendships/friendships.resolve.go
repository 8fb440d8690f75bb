package friendships

import (
	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/chat-api/internal/api/rest/middleware"
	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/utils"
)

type resolveRoute struct {
	Ctx    global.Context
	status structures.FriendshipStatus
}

func newResolve(gctx global.Context, status structures.FriendshipStatus) rest.Route {
	return &resolveRoute{gctx, status}
}

func (r *resolveRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "/{friendship.id}/" + utils.Ternary(r.status == structures.FriendshipStatusAccepted, "accept", "reject"),
		Method:   rest.POST,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx, true),
			middleware.RateLimit(r.Ctx, "friendships-resolve", r.Ctx.Config().Limits.Buckets.Rest),
		},
	}
}

func (r *resolveRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, _ := ctx.GetActor()

	friendshipID, err := ctx.UserValue("friendship.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	done := r.Ctx.Inst().Limiter.AwaitMutation(ctx)
	defer done()

	var fs structures.Friendship

	switch r.status {
	case structures.FriendshipStatusAccepted:
		fs, err = r.Ctx.Inst().Chat.AcceptFriendRequest(ctx, actor.ID, friendshipID)
	case structures.FriendshipStatusRejected:
		fs, err = r.Ctx.Inst().Chat.RejectFriendRequest(ctx, actor.ID, friendshipID)
	default:
		return errors.ErrInvalidRequest()
	}

	if err != nil {
		return errors.From(err)
	}

	return ctx.JSON(rest.OK, r.Ctx.Inst().Modelizer.Friendship(fs))
}
