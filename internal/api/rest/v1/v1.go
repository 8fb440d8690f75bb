package v1

import (
	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/api/rest/v1/routes"
	"github.com/seventv/chat-api/internal/global"
)

func API(gCtx global.Context, router *rest.Router) rest.Route {
	return routes.New(gCtx)
}
