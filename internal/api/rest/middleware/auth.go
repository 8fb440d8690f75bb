package middleware

import (
	"strings"

	"github.com/seventv/chat-api/internal/api/rest/rest"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/errors"
	"github.com/seventv/common/utils"
)

func Auth(gctx global.Context, required bool) rest.Middleware {
	return func(ctx *rest.Ctx) rest.APIError {
		// Parse token from header
		h := utils.B2S(ctx.Request.Header.Peek("Authorization"))
		s := strings.Split(h, "Bearer ")

		if len(s) != 2 {
			if !required {
				return nil
			}

			return errors.ErrUnauthorized().SetFields(errors.Fields{"message": "Bad Authorization Header"})
		}

		userID, err := gctx.Inst().Auth.VerifyAccessToken(s[1])
		if err != nil {
			if !required {
				return nil
			}

			return errors.From(err)
		}

		user, err := gctx.Inst().Loaders.UserByID().Load(userID)
		if err != nil {
			if !required {
				return nil
			}

			return errors.From(err)
		}

		ctx.SetActor(user)

		return nil
	}
}
