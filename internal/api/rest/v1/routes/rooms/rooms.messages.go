package rooms

import (
	"github.com/seventv/chat-api/data/model"
	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/chat-api/internal/api/rest/middleware"
	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type messagesRoute struct {
	Ctx global.Context
}

func newMessages(gctx global.Context) rest.Route {
	return &messagesRoute{gctx}
}

func (r *messagesRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "/{room.id}/messages",
		Method:   rest.GET,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx, true),
		},
	}
}

// Handler returns the latest page of a room's history, or the page before
// a given message when the "before" query is set.
func (r *messagesRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, _ := ctx.GetActor()

	roomID, err := ctx.UserValue("room.id").ObjectID()
	if err != nil {
		return errors.From(err)
	}

	if _, err := r.Ctx.Inst().Query.Participant(ctx, roomID, actor.ID); err != nil {
		return errors.From(err)
	}

	var messages []structures.Message

	before := utils.B2S(ctx.QueryArgs().Peek("before"))
	if before != "" {
		beforeID, err := primitive.ObjectIDFromHex(before)
		if err != nil {
			return errors.ErrBadObjectID()
		}

		messages, err = r.Ctx.Inst().Chat.LoadOlderMessages(ctx, roomID, beforeID)
		if err != nil {
			return errors.From(err)
		}
	} else {
		messages, err = r.Ctx.Inst().Chat.LoadMessages(ctx, roomID)
		if err != nil {
			return errors.From(err)
		}
	}

	result := make([]model.MessageModel, len(messages))

	for i, msg := range messages {
		mm := r.Ctx.Inst().Modelizer.Message(msg)

		if author, err := r.Ctx.Inst().Loaders.UserByID().Load(msg.AuthorID); err == nil {
			mm.Author = utils.PointerOf(r.Ctx.Inst().Modelizer.User(author).ToPartial())
		}

		result[i] = mm
	}

	return ctx.JSON(rest.OK, result)
}
