package game

import "errors"

// 命令被拒绝时返回的错误，状态不会被部分修改
var (
	ErrWrongStage      = errors.New("当前阶段不支持该操作")
	ErrUnknownCommand  = errors.New("无法处理请求：未知的命令类型")
	ErrNoHuman         = errors.New("本局没有人类玩家")
	ErrPlayerDead      = errors.New("玩家已出局，无法行动")
	ErrMeetingCooldown = errors.New("会议冷却中，无法召开会议")
	ErrNoTaskNearby    = errors.New("附近没有未完成的任务")
	ErrNoTarget        = errors.New("无法淘汰：附近没有合法目标或仍在冷却")
	ErrNoVent          = errors.New("附近没有可用的通风口")
	ErrNothingToDo     = errors.New("当前位置没有可执行的动作")
	ErrInvalidVote     = errors.New("投票无效：投票者或目标不在会议中")
)
