package loaders

import (
	"context"

	"github.com/seventv/chat-api/data/query"
	"github.com/seventv/chat-api/data/structures"
	"github.com/seventv/common/dataloader"
	"github.com/seventv/common/mongo"
	"github.com/seventv/common/redis"
	"github.com/seventv/common/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const LoadersKey = utils.Key("dataloaders")

type Instance interface {
	UserByID() UserLoaderByID
	RoomByID() RoomLoaderByID
}

type inst struct {
	userByID UserLoaderByID
	roomByID RoomLoaderByID

	mongo mongo.Instance
	redis redis.Instance
	query *query.Query
}

func New(ctx context.Context, mngo mongo.Instance, rdis redis.Instance, quer *query.Query) Instance {
	l := inst{
		query: quer,
		mongo: mngo,
		redis: rdis,
	}

	l.userByID = userLoader(ctx, l)
	l.roomByID = roomLoader(ctx, l)

	return &l
}

func (l inst) UserByID() UserLoaderByID {
	return l.userByID
}

func (l inst) RoomByID() RoomLoaderByID {
	return l.roomByID
}

type (
	UserLoaderByID = *dataloader.DataLoader[primitive.ObjectID, structures.User]
	RoomLoaderByID = *dataloader.DataLoader[primitive.ObjectID, structures.Room]
)
