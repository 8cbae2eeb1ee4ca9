package websocket

import (
	"encoding/json"
	"time"

	"impostor-2d-be/internal/service/game"
	"impostor-2d-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// PlayGame 处理一条人类玩家的连接：首条消息必须是 JoinGame，
// 之后客户端上报输入、动作与投票，服务端推送快照与事件
func PlayGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		clientIP := ctx.RemoteAddr()

		conn.SetReadDeadline(time.Now().Add(JOIN_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		// 读取首次请求，获取会话 ID
		_, msg, err := conn.ReadMessage()
		if err != nil {
			zap.L().Error(
				"读取首次请求失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			return
		}

		var wrapper game.RequestWrapper

		if err := json.Unmarshal(msg, &wrapper); err != nil {
			zap.L().Error(
				"解析首次请求失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			writeNow(conn, game.WrapErrResponse("无效的请求格式"))
			return
		}

		req := game.TryUnwrapJoinGameRequest(wrapper)
		if req == nil {
			zap.L().Error(
				"首次请求不是JoinGame类型",
				zap.String("client_ip", clientIP),
				zap.String("request_type", wrapper.ReqType),
			)
			writeNow(conn, game.WrapErrResponse("首次请求必须是 JoinGame"))
			return
		}

		// 响应通道由连接持有，会话只向其中写入
		respCh := make(chan game.ResponseWrapper, RESP_BUFFER)
		req.RespCh = respCh

		reqCh, err := appState.SessionSvc.JoinSession(req)
		if err != nil {
			zap.L().Warn(
				"加入会话失败",
				zap.String("client_ip", clientIP),
				zap.String("session_id", req.SessionID),
				zap.Error(err),
			)
			writeNow(conn, game.WrapErrResponse(err.Error()))
			return
		}

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		writerExitedCh := make(chan struct{})

		go writeLoop(conn, clientIP, respCh, writeDoneCh, writerExitedCh)

		// 读取协程（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure,
					websocket.CloseAbnormalClosure,
				) {
					zap.L().Warn(
						"读取消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			var wrapper game.RequestWrapper

			if err := json.Unmarshal(msg, &wrapper); err != nil {
				trySend(respCh, game.WrapErrResponse("无效的请求格式"))
				continue
			}

			// 客户端不能通过消息伪造内部请求
			wrapper.NativeData = nil

			select {
			case reqCh <- wrapper:
			default:
				zap.L().Warn(
					"发送请求到会话失败：请求通道已满",
					zap.String("client_ip", clientIP),
				)
				trySend(respCh, game.WrapErrResponse("会话繁忙，请稍后再试"))
			}
		}

		// 先停止写协程，再独占响应通道等待退出确认
		close(writeDoneCh)
		<-writerExitedCh

		exitWrapper := game.RequestWrapper{
			ReqType:    game.REQ_EXIT_GAME,
			NativeData: &game.ExitGameRequest{RespCh: respCh},
		}

		select {
		case reqCh <- exitWrapper:
		default:
			zap.L().Warn(
				"发送退出请求失败：请求通道已满",
				zap.String("session_id", req.SessionID),
			)
			return
		}

		timer := time.NewTimer(EXIT_TIMEOUT)
		defer timer.Stop()

		for {
			select {
			case resp := <-respCh:
				if resp.RespType == game.RESP_EXIT_GAME {
					zap.L().Info(
						"连接处理完成",
						zap.String("client_ip", clientIP),
						zap.String("session_id", req.SessionID),
					)
					return
				}

			case <-timer.C:
				zap.L().Warn(
					"等待退出确认超时，强制退出",
					zap.String("session_id", req.SessionID),
				)
				return
			}
		}
	}
}

func writeLoop(
	conn *websocket.Conn,
	clientIP string,
	respCh <-chan game.ResponseWrapper,
	doneCh <-chan struct{},
	exitedCh chan<- struct{},
) {
	defer close(exitedCh)

	ticker := time.NewTicker(HEARTBEAT_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-doneCh:
			return

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				zap.L().Warn(
					"发送心跳失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				conn.Close()
				return
			}

		case resp := <-respCh:
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := conn.WriteJSON(resp); err != nil {
				zap.L().Warn(
					"发送消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				conn.Close()
				return
			}

			// 会话关闭或被新连接替换，读协程会随之退出
			if resp.RespType == game.RESP_EXIT_GAME {
				conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session left"),
					time.Now().Add(WRITE_TIMEOUT),
				)
				conn.Close()
				return
			}
		}
	}
}

func trySend(respCh chan<- game.ResponseWrapper, resp game.ResponseWrapper) {
	select {
	case respCh <- resp:
	default:
	}
}

// writeNow 在写协程启动前直接写入
func writeNow(conn *websocket.Conn, resp game.ResponseWrapper) {
	conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
	if err := conn.WriteJSON(resp); err != nil {
		zap.L().Debug("写入响应失败", zap.Error(err))
	}
}
