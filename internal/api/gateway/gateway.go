package gateway

import (
	"fmt"
	"net"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/seventv/chat-api/internal/global"
	"github.com/seventv/common/utils"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const heartbeatInterval = time.Second * 45

type Server struct {
	gctx     global.Context
	listener net.Listener
	upgrader websocket.FastHTTPUpgrader
}

func New(gctx global.Context) error {
	port := gctx.Config().Http.Ports.Gateway
	if port == 0 {
		port = 3000
	}

	s := Server{
		gctx: gctx,
		upgrader: websocket.FastHTTPUpgrader{
			CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
				return true
			},
		},
	}

	var err error

	s.listener, err = net.Listen("tcp", fmt.Sprintf("%s:%d", gctx.Config().Http.Addr, port))
	if err != nil {
		return err
	}

	srv := &fasthttp.Server{
		Handler:         s.handleRequest,
		ReadTimeout:     time.Second * 10,
		IdleTimeout:     time.Second * 60,
		CloseOnShutdown: true,
	}

	go func() {
		<-gctx.Done()

		_ = srv.Shutdown()
	}()

	return srv.Serve(s.listener)
}

func (s *Server) handleRequest(ctx *fasthttp.RequestCtx) {
	switch utils.B2S(ctx.Path()) {
	case "/v1/gateway":
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		return
	}

	token := utils.B2S(ctx.QueryArgs().Peek("token"))
	if token == "" {
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
		return
	}

	// the credential is checked before the upgrade so a bad token costs no
	// websocket handshake
	if _, err := s.gctx.Inst().Auth.VerifyAccessToken(token); err != nil {
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
		return
	}

	err := s.upgrader.Upgrade(ctx, func(conn *websocket.Conn) {
		sess := newSession(s.gctx, conn)

		sess.run(token)
	})
	if err != nil {
		zap.S().Debugw("gateway, failed websocket upgrade",
			"error", err,
			"ip", ctx.RemoteIP().String(),
		)
	}
}
