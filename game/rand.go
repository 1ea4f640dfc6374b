package game

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// Randomizer 对局里所有随机性（洗牌、偷牌、机器人抖动）的来源
type Randomizer interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// DefaultRand 进程级共享的随机源，带锁，可并发使用
var DefaultRand = NewLockedRand(uint64(time.Now().UnixNano()))

// NewLockedRand 带锁的随机源，可以被多个请求同时使用
func NewLockedRand(seed uint64) Randomizer {
	src := &rand.LockedSource{}
	src.Seed(seed)
	return rand.New(src)
}

// NewSeededRand 固定种子的随机源，不能跨 goroutine 共享
func NewSeededRand(seed uint64) Randomizer {
	return rand.New(rand.NewSource(seed))
}

// NewID 截取去掉横线的 uuid 作为短 id
func NewID(n int) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	if n > 0 && n < len(id) {
		return id[:n]
	}
	return id
}

func newCard(t CardType) Card {
	return Card{ID: NewID(12), Type: t}
}
