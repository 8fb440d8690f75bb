package users

import (
	"github.com/seventv/chat-api/data/model"
	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/chat-api/internal/api/rest/middleware"
	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/utils"
)

type searchRoute struct {
	Ctx global.Context
}

func newSearch(gctx global.Context) rest.Route {
	return &searchRoute{gctx}
}

func (r *searchRoute) Config() rest.RouteConfig {
	return rest.RouteConfig{
		URI:      "/search",
		Method:   rest.GET,
		Children: []rest.Route{},
		Middleware: []rest.Middleware{
			middleware.Auth(r.Ctx, true),
			middleware.RateLimit(r.Ctx, "search", r.Ctx.Config().Limits.Buckets.Search),
		},
	}
}

func (r *searchRoute) Handler(ctx *rest.Ctx) rest.APIError {
	actor, _ := ctx.GetActor()

	name := utils.B2S(ctx.QueryArgs().Peek("name"))
	if name == "" {
		return errors.ErrMissingRequiredField().SetFields(errors.Fields{"query": "name"})
	}

	users, err := r.Ctx.Inst().Query.SearchUsers(ctx, name, actor.ID).Items()
	if err != nil {
		return errors.From(err)
	}

	result := utils.Map(users, func(u structures.User) model.UserModel {
		return r.Ctx.Inst().Modelizer.User(u)
	})

	return ctx.JSON(rest.OK, result)
}
