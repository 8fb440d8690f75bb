package instance

import (
	"github.com/seventv/chat-api/data/events"
	"github.com/seventv/chat-api/data/model"
	"github.com/seventv/chat-api/data/mutate"
	"github.com/seventv/chat-api/data/query"
	"github.com/seventv/chat-api/internal/loaders"
	"github.com/seventv/chat-api/internal/svc/auth"
	"github.com/seventv/chat-api/internal/svc/chat"
	"github.com/seventv/chat-api/internal/svc/limiter"
	"github.com/seventv/chat-api/internal/svc/presence"
	"github.com/seventv/chat-api/internal/svc/prometheus"
	"github.com/seventv/chat-api/internal/svc/viewers"
	"github.com/seventv/common/mongo"
	"github.com/seventv/common/redis"
)

type Instances struct {
	Mongo      mongo.Instance
	Redis      redis.Instance
	Auth       auth.Authorizer
	Prometheus prometheus.Instance
	Events     events.Instance
	Limiter    limiter.Instance
	Loaders    loaders.Instance
	Presence   presence.Instance
	Viewers    viewers.Instance
	Chat       chat.Instance
	Modelizer  model.Modelizer

	Query  *query.Query
	Mutate *mutate.Mutate
}
