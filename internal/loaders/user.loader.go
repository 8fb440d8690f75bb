package loaders

import (
	"context"
	"time"

	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/common/dataloader"
	"github.com/seventv/common/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func userLoader(gCtx context.Context, l inst) UserLoaderByID {
	return dataloader.New(dataloader.Config[primitive.ObjectID, structures.User]{
		Wait: time.Millisecond * 25,
		Fetch: func(keys []primitive.ObjectID) ([]structures.User, []error) {
			ctx, cancel := context.WithTimeout(gCtx, time.Second*10)
			defer cancel()

			models := make([]structures.User, len(keys))
			errs := make([]error, len(keys))

			users, err := l.query.Users(ctx, bson.M{"_id": bson.M{"$in": keys}}).Items()

			m := make(map[primitive.ObjectID]structures.User)
			if err == nil {
				for _, u := range users {
					m[u.ID] = u
				}

				for i, v := range keys {
					if x, ok := m[v]; ok {
						models[i] = x
					} else {
						errs[i] = errors.ErrUnknownUser()
					}
				}
			} else {
				for i := range errs {
					errs[i] = err
				}
			}

			return models, errs
		},
	})
}
