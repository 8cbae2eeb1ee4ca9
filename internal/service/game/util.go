package game

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

func GenID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("Failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// GenShortID 取 UUID 的末 8 位，足够在单局内区分玩家
func GenShortID() string {
	id := GenID()
	return id[len(id)-8:]
}

// RandSource 是可注入的随机源，*rand.Rand 天然满足该接口
type RandSource interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRandSource 返回一个固定种子的随机源，测试中用于复现结果
func NewRandSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEntropySource 生产环境使用的随机源
func NewEntropySource() *rand.Rand {
	return NewRandSource(uint64(time.Now().UnixNano()))
}
