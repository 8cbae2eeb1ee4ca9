package http

import (
	"errors"

	"impostor-2d-be/internal/service"
	"impostor-2d-be/internal/service/dto"
	"impostor-2d-be/internal/state"

	"github.com/kataras/iris/v12"
)

func writeError(ctx iris.Context, err error) {
	status := iris.StatusBadRequest

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status = iris.StatusNotFound
	case errors.Is(err, service.ErrTooManySessions), errors.Is(err, service.ErrSessionBusy):
		status = iris.StatusServiceUnavailable
	}

	ctx.StatusCode(status)
	ctx.JSON(iris.Map{
		"error": err.Error(),
	})
}

func CreateSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.CreateSessionRequest

		// 请求体可以为空
		if ctx.GetContentLength() > 0 {
			if err := ctx.ReadJSON(&req); err != nil {
				ctx.StatusCode(iris.StatusBadRequest)
				ctx.JSON(iris.Map{
					"error": "请求参数无效",
				})
				return
			}
		}

		resp, err := appState.SessionSvc.CreateSession(req)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(resp)
	}
}

func ListSessions(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(appState.SessionSvc.ListSessions())
	}
}

func GetSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		info, err := appState.SessionSvc.GetSession(ctx.Request().Context(), ctx.Params().Get("id"))
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(info)
	}
}

func CloseSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		if err := appState.SessionSvc.CloseSession(ctx.Params().Get("id")); err != nil {
			writeError(ctx, err)
			return
		}

		ctx.StatusCode(iris.StatusNoContent)
	}
}
