package http

import (
	"context"
	"errors"
	"time"

	"impostor-2d-be/internal/api/http/websocket"
	"impostor-2d-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

const SHUTDOWN_TIMEOUT = 5 * time.Second

func NewApp(appState *state.AppState) *iris.Application {
	app := iris.New()
	app.Logger().SetLevel("warn")

	if dir := appState.Cfg.StaticDir; dir != "" {
		app.HandleDir(
			"/",
			iris.Dir(dir),
			iris.DirOptions{
				IndexName: "index.html",
				SPA:       true,
				Compress:  true,
			},
		)
	}

	app.Get("/healthz", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	api := app.Party("/api/v1")

	api.Post("/sessions/create", CreateSession(appState))
	api.Get("/sessions", ListSessions(appState))
	api.Get("/sessions/{id}", GetSession(appState))
	api.Delete("/sessions/{id}", CloseSession(appState))

	api.Get("/ws/play", websocket.PlayGame(appState))

	return app
}

// RunServer 阻塞直到 ctx 取消或服务出错
func RunServer(ctx context.Context, appState *state.AppState) error {
	app := NewApp(appState)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()

		if err := app.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("关闭 HTTP 服务失败", zap.Error(err))
		}
	}()

	addr := appState.Cfg.Addr()

	zap.S().Infof("HTTP 服务监听 %s", addr)

	err := app.Listen(addr, iris.WithoutInterruptHandler, iris.WithoutStartupLog)
	if err != nil && !errors.Is(err, iris.ErrServerClosed) {
		return err
	}

	return nil
}
