package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// NOTE: 暂时允许所有来源
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

const (
	HEARTBEAT_INTERVAL = 30 * time.Second
	HEARTBEAT_TIMEOUT  = 45 * time.Second
	// 单次写入的最长时间
	WRITE_TIMEOUT = 5 * time.Second
	// 首个 JoinGame 请求必须在该时间内到达
	JOIN_TIMEOUT = 10 * time.Second
	// 断开后等待会话确认退出的时间
	EXIT_TIMEOUT = 3 * time.Second

	// 客户端响应通道的缓冲大小，快照推送频繁
	RESP_BUFFER = 128
)

var heartbeatHandler = func(conn *websocket.Conn) func(string) error {
	return func(string) error {
		return conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
	}
}
