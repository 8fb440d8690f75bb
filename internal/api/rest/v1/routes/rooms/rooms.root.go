package rooms

import (
	"github.com/seventv/chat-api/data/model"
	"github.com/seventv/chat-api/internal/api/rest/middleware"
	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
)

type Route struct {
	Ctx global.Context
}

func New(gCtx global.Context) rest.Route {
	return &Route{gCtx}
}

func (r *Route) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:    "/rooms",
		Method: rest.GET,
		Children: []rest.Route{
			newCreate(r.Ctx),
			newMessages(r.Ctx),
		},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx, true),
		},
	}
}

// Handler lists the actor's rooms, most recently active first, with
// participants and unread counters attached.
func (r *Route) Handler(ctx *rest.Ctx) rest.APIError {
	actor, _ := ctx.GetActor()

	rooms, err := r.Ctx.Inst().Query.RoomsForUser(ctx, actor.ID).Items()
	if err != nil {
		return errors.From(err)
	}

	unread, err := r.Ctx.Inst().Query.UnreadCounts(ctx, actor.ID)
	if err != nil {
		return errors.From(err)
	}

	result := make([]model.RoomModel, len(rooms))

	for i, room := range rooms {
		rm := r.Ctx.Inst().Modelizer.Room(room)
		rm.UnreadCount = unread[room.ID]

		participants, err := r.Ctx.Inst().Query.RoomParticipants(ctx, room.ID).Items()
		if err == nil {
			rm.Participants = make([]model.UserPartialModel, 0, len(participants))

			for _, p := range participants {
				u, err := r.Ctx.Inst().Loaders.UserByID().Load(p.UserID)
				if err != nil {
					continue
				}

				rm.Participants = append(rm.Participants, r.Ctx.Inst().Modelizer.User(u).ToPartial())
			}
		}

		result[i] = rm
	}

	return ctx.JSON(rest.OK, result)
}
