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

func roomLoader(gCtx context.Context, l inst) RoomLoaderByID {
	return dataloader.New(dataloader.Config[primitive.ObjectID, structures.Room]{
		Wait: time.Millisecond * 25,
		Fetch: func(keys []primitive.ObjectID) ([]structures.Room, []error) {
			ctx, cancel := context.WithTimeout(gCtx, time.Second*10)
			defer cancel()

			models := make([]structures.Room, len(keys))
			errs := make([]error, len(keys))

			rooms, err := l.query.Rooms(ctx, bson.M{"_id": bson.M{"$in": keys}}).Items()

			m := make(map[primitive.ObjectID]structures.Room)
			if err == nil {
				for _, room := range rooms {
					m[room.ID] = room
				}

				for i, v := range keys {
					if x, ok := m[v]; ok {
						models[i] = x
					} else {
						errs[i] = errors.ErrNoItems().SetDetail("Unknown Room")
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
