package friendships

import (
	"encoding/json"

	"github.com/seventv/chat-api/internal/api/rest/middleware"
	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createRoute struct {
	Ctx global.Context
}

func newCreate(gctx global.Context) rest.Route {
	return &createRoute{gctx}
}

func (r *createRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "",
		Method:   rest.POST,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx, true),
			middleware.RateLimit(r.Ctx, "friendships-create", r.Ctx.Config().Limits.Buckets.Rest),
		},
	}
}

type createRequest struct {
	UserID string `json:"user_id"`
}

func (r *createRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, _ := ctx.GetActor()

	body := createRequest{}
	if err := json.Unmarshal(ctx.Request.Body(), &body); err != nil {
		return errors.ErrInvalidRequest().SetDetail("Invalid Request Body")
	}

	recipientID, err := primitive.ObjectIDFromHex(body.UserID)
	if err != nil {
		return errors.ErrBadObjectID()
	}

	done := r.Ctx.Inst().Limiter.AwaitMutation(ctx)
	defer done()

	fs, err := r.Ctx.Inst().Chat.SendFriendRequest(ctx, actor.ID, recipientID)
	if err != nil {
		return errors.From(err)
	}

	return ctx.JSON(rest.Created, r.Ctx.Inst().Modelizer.Friendship(fs))
}
