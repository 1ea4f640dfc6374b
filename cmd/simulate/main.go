// simulate 让机器人互相对战若干局，用来观察规则和策略是否会卡死
package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"kitten-game/ai"
	"kitten-game/entities"
	"kitten-game/game"
	"kitten-game/utils"
)

func main() {
	players := flag.Int("players", 4, "每局玩家数 (2-5)")
	games := flag.Int("games", 100, "模拟局数")
	seed := flag.Uint64("seed", 1, "随机种子")
	maxSteps := flag.Int("max-steps", 2000, "单局最多动作数")
	logLevel := flag.String("log-level", "info", "日志级别")
	flag.Parse()

	if *players < game.MinPlayers || *players > game.MaxPlayers {
		log.Fatalf("players 必须在 %d 到 %d 之间", game.MinPlayers, game.MaxPlayers)
	}
	logger, err := utils.NewLogger(*logLevel, true)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	rng := game.NewSeededRand(*seed)
	engine := game.NewEngine(rng)
	orch := ai.NewOrchestrator(engine, ai.NewPolicy(rng), *maxSteps, logger.Named("bots"))

	wins := map[int]int{}
	stuck, totalRevisions := 0, int64(0)
	for i := 0; i < *games; i++ {
		final := playOne(engine, orch, *players)
		if final.Status != entities.MatchStatusFinished {
			stuck++
			logger.Warn("match did not finish", zap.Int("game", i), zap.Int64("revision", final.Revision))
			continue
		}
		seat := final.PlayerIndex(final.WinnerID)
		wins[seat]++
		totalRevisions += final.Revision
		logger.Debug("match finished", zap.Int("game", i), zap.Int("winnerSeat", seat), zap.Int64("revision", final.Revision))
	}

	finished := *games - stuck
	avg := 0.0
	if finished > 0 {
		avg = float64(totalRevisions) / float64(finished)
	}
	logger.Info("simulation done",
		zap.Int("games", *games),
		zap.Int("players", *players),
		zap.Int("stuck", stuck),
		zap.Float64("avgRevisions", avg),
		zap.Any("winsBySeat", wins))
}

// playOne 全部座位都是机器人，一次 Advance 就能打完整局
func playOne(engine *game.Engine, orch *ai.Orchestrator, players int) *entities.MatchState {
	state := engine.CreateMatch(game.NewBot(players-1), false, players-1)
	started, err := engine.StartMatch(state)
	if err != nil {
		return state
	}
	return orch.Advance(started)
}
