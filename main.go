package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ChatLink/global"
	"ChatLink/logger"
	"ChatLink/middleware"
	midsec "ChatLink/middleware/security"
	msgstore "ChatLink/module/chat/message"
	"ChatLink/module/user"
	usersvc "ChatLink/module/user/service"
	"ChatLink/service/chat"
	"ChatLink/service/mgo"
	"ChatLink/service/storage"
	"ChatLink/tools/ids"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := global.Load()
	global.ConfigIds()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := storage.InitRedis(storage.Config{
		Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB,
	}); err != nil {
		// The presence mirror is optional at boot; Mongo is not.
		logger.Warnf("[boot] redis unavailable, presence mirror disabled: %v", err)
	}

	mgo.StartAsync(ctx, mgo.Config{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDatabase,
		MaxPoolSize: 20,
	})
	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := mgo.WaitReady(waitCtx); err != nil {
		logger.Errorf("[boot] mongo not ready: %v (last: %v)", err, mgo.Err())
		os.Exit(1)
	}

	db := mgo.GetDB()
	users := usersvc.NewStore(db)
	msgs := msgstore.NewStore(db)

	jwtOpts := cfg.JWTOptions()
	gate := chat.NewGate(jwtOpts, users, cfg.HandshakeTimeout)
	server := chat.NewServer(chat.ServerConf{
		NodeID:           "gw-" + ids.GenerateString(),
		AllowedOrigins:   cfg.AllowedOrigins,
		HandshakeTimeout: cfg.HandshakeTimeout,
		StoreTimeout:     cfg.StoreTimeout,
		PresenceTTL:      cfg.PresenceTTL,
	}, gate, chat.Stores{Users: users, Messages: msgs})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Origin(cfg.AllowedOrigins))

	r.GET("/ws", server.HandleWS)

	api := r.Group("/api")
	userGroup := api.Group("/users", midsec.Middleware(jwtOpts))
	user.NewHandler(users, msgs).Mount(userGroup)

	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		logger.Infof("[boot] gateway listening on %s", cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("[boot] listen: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = httpSrv.Shutdown(shutCtx)
	logger.Info("[boot] gateway stopped")
}
