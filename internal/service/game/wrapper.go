package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_JOIN_GAME = "JoinGame"
	REQ_EXIT_GAME = "ExitGame"
	REQ_INPUT     = "Input"
	REQ_ACTION    = "Action"
	REQ_VOTE      = "Vote"
	REQ_RESTART   = "Restart"
	REQ_SYNC      = "Sync"
)

type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data"`

	// 服务端内部构造的请求直接携带结构体，不经过序列化
	NativeData any `json:"-"`
}

// unwrap 优先使用 NativeData，否则从 Data 解析
func unwrap[T any](wrapper RequestWrapper, reqType string) *T {
	if wrapper.ReqType != reqType {
		return nil
	}

	if native, ok := wrapper.NativeData.(*T); ok && native != nil {
		return native
	}

	var req T

	if len(wrapper.Data) == 0 {
		return &req
	}

	if err := json.Unmarshal(wrapper.Data, &req); err != nil {
		zap.L().Error(
			"解析请求失败",
			zap.String("request_type", reqType),
			zap.Error(err),
			zap.ByteString("data", wrapper.Data),
		)
		return nil
	}

	return &req
}

func TryUnwrapJoinGameRequest(wrapper RequestWrapper) *JoinGameRequest {
	return unwrap[JoinGameRequest](wrapper, REQ_JOIN_GAME)
}

func TryUnwrapExitGameRequest(wrapper RequestWrapper) *ExitGameRequest {
	return unwrap[ExitGameRequest](wrapper, REQ_EXIT_GAME)
}

func TryUnwrapInputRequest(wrapper RequestWrapper) *InputRequest {
	return unwrap[InputRequest](wrapper, REQ_INPUT)
}

func TryUnwrapActionRequest(wrapper RequestWrapper) *ActionRequest {
	return unwrap[ActionRequest](wrapper, REQ_ACTION)
}

func TryUnwrapVoteRequest(wrapper RequestWrapper) *VoteRequest {
	return unwrap[VoteRequest](wrapper, REQ_VOTE)
}

func TryUnwrapRestartRequest(wrapper RequestWrapper) *RestartRequest {
	return unwrap[RestartRequest](wrapper, REQ_RESTART)
}

func TryUnwrapSyncRequest(wrapper RequestWrapper) *SyncRequest {
	return unwrap[SyncRequest](wrapper, REQ_SYNC)
}

// toCommand 把客户端请求转换为比赛命令
func toCommand(wrapper RequestWrapper) (any, bool) {
	switch wrapper.ReqType {
	case REQ_INPUT:
		if req := TryUnwrapInputRequest(wrapper); req != nil {
			return IntentCommand{Intent: Intent(*req)}, true
		}

	case REQ_ACTION:
		if req := TryUnwrapActionRequest(wrapper); req != nil {
			return ActionCommand{Kind: req.Kind, VentID: req.VentID}, true
		}

	case REQ_VOTE:
		if req := TryUnwrapVoteRequest(wrapper); req != nil {
			target := req.TargetID
			if req.Skip {
				target = SKIP_VOTE
			}
			return VoteCommand{TargetID: target}, true
		}

	case REQ_RESTART:
		if TryUnwrapRestartRequest(wrapper) != nil {
			return RestartCommand{}, true
		}
	}

	return nil, false
}

// 响应类型
const (
	RESP_ERROR = "Error"

	RESP_JOIN_GAME = "JoinGame"
	RESP_EXIT_GAME = "ExitGame"
	RESP_SNAPSHOT  = "Snapshot"
	RESP_EVENT     = "Event"
	RESP_ACTION    = "Action"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data"`
	ErrMsg   string `json:"error_message,omitempty"`
}

// ActionResponse 是动作、投票、重开等请求的受理结果
type ActionResponse struct {
	RequestType string `json:"request_type"`
	Accepted    bool   `json:"accepted"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}
