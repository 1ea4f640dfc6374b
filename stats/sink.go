package stats

import "context"

// Delta 一次动作对某个玩家计数的增量
type Delta struct {
	GamesPlayed int
	Wins        int
	Losses      int
	Explosions  int
	CardsPlayed int
	CardsStolen int
	DefusesUsed int
}

func (d Delta) IsZero() bool {
	return d == Delta{}
}

// Add 合并两个增量
func (d Delta) Add(o Delta) Delta {
	return Delta{
		GamesPlayed: d.GamesPlayed + o.GamesPlayed,
		Wins:        d.Wins + o.Wins,
		Losses:      d.Losses + o.Losses,
		Explosions:  d.Explosions + o.Explosions,
		CardsPlayed: d.CardsPlayed + o.CardsPlayed,
		CardsStolen: d.CardsStolen + o.CardsStolen,
		DefusesUsed: d.DefusesUsed + o.DefusesUsed,
	}
}

// Sink 接收玩家统计增量。写入失败不应影响对局本身。
type Sink interface {
	Record(ctx context.Context, playerID string, d Delta) error
}

// Reader 读取玩家累计统计
type Reader interface {
	Get(ctx context.Context, playerID string) (Stats, error)
}

type NopSink struct{}

func (NopSink) Record(context.Context, string, Delta) error { return nil }

func (NopSink) Get(context.Context, string) (Stats, error) { return Stats{}, nil }
