package stats

const (
	baseLevelXP = 120
	levelXPStep = 40

	winXP       = 120
	lossXP      = 35
	explosionXP = 8
	playedXP    = 6
	stolenXP    = 16
	defuseXP    = 20

	streakStepXP = 8
	maxStreakXP  = 60
)

// Stats 玩家累计数据，字段名与 Redis hash 的 field 一致
type Stats struct {
	GamesPlayed   int `json:"gamesPlayed" mapstructure:"gamesPlayed"`
	Wins          int `json:"wins" mapstructure:"wins"`
	Losses        int `json:"losses" mapstructure:"losses"`
	Explosions    int `json:"explosions" mapstructure:"explosions"`
	CardsPlayed   int `json:"cardsPlayed" mapstructure:"cardsPlayed"`
	CardsStolen   int `json:"cardsStolen" mapstructure:"cardsStolen"`
	DefusesUsed   int `json:"defusesUsed" mapstructure:"defusesUsed"`
	WinStreak     int `json:"winStreak" mapstructure:"winStreak"`
	BestWinStreak int `json:"bestWinStreak" mapstructure:"bestWinStreak"`
	XP            int `json:"xp" mapstructure:"xp"`
}

// Apply 把增量累加到统计上并返回获得的经验。
// 胜利的连胜奖励按本次胜利之后的连胜数计算，失败清零连胜。
func (s *Stats) Apply(d Delta) int {
	gained := 0
	s.GamesPlayed += d.GamesPlayed
	s.Explosions += d.Explosions
	s.CardsPlayed += d.CardsPlayed
	s.CardsStolen += d.CardsStolen
	s.DefusesUsed += d.DefusesUsed
	gained += d.Explosions*explosionXP + d.CardsPlayed*playedXP + d.CardsStolen*stolenXP + d.DefusesUsed*defuseXP

	for i := 0; i < d.Wins; i++ {
		s.Wins++
		s.WinStreak++
		if s.WinStreak > s.BestWinStreak {
			s.BestWinStreak = s.WinStreak
		}
		gained += winXP + streakBonus(s.WinStreak)
	}
	if d.Losses > 0 {
		s.Losses += d.Losses
		s.WinStreak = 0
		gained += d.Losses * lossXP
	}
	s.XP += gained
	return gained
}

func streakBonus(streak int) int {
	bonus := (streak - 1) * streakStepXP
	if bonus < 0 {
		return 0
	}
	if bonus > maxStreakXP {
		return maxStreakXP
	}
	return bonus
}

type LevelInfo struct {
	Level        int     `json:"level"`
	XP           int     `json:"xp"`
	LevelStartXP int     `json:"levelStartXp"`
	NextLevelXP  int     `json:"nextLevelXp"`
	Progress     float64 `json:"progress"`
}

func Level(xp int) LevelInfo {
	if xp < 0 {
		xp = 0
	}
	level, start, required := 1, 0, baseLevelXP
	for xp >= start+required {
		start += required
		required += levelXPStep
		level++
	}
	return LevelInfo{
		Level:        level,
		XP:           xp,
		LevelStartXP: start,
		NextLevelXP:  start + required,
		Progress:     clamp01(float64(xp-start) / float64(required)),
	}
}

type rankTier struct {
	title   string
	minWins int
}

var rankTiers = []rankTier{
	{"Rookie Spark", 0},
	{"Fuse Runner", 3},
	{"Chaos Tactician", 8},
	{"Card Predator", 16},
	{"Bomb Whisperer", 28},
	{"Kitten Warlord", 45},
}

type RankInfo struct {
	Title    string  `json:"title"`
	MinWins  int     `json:"minWins"`
	NextWins *int    `json:"nextWins"`
	Progress float64 `json:"progress"`
}

// Rank 按胜场划分段位，最高段位 NextWins 为 nil
func Rank(wins int) RankInfo {
	cur := 0
	for i, tier := range rankTiers {
		if wins >= tier.minWins {
			cur = i
		}
	}
	info := RankInfo{Title: rankTiers[cur].title, MinWins: rankTiers[cur].minWins, Progress: 1}
	if cur+1 < len(rankTiers) {
		next := rankTiers[cur+1].minWins
		info.NextWins = &next
		span := next - info.MinWins
		if span < 1 {
			span = 1
		}
		info.Progress = clamp01(float64(wins-info.MinWins) / float64(span))
	}
	return info
}

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Goal        int    `json:"goal"`
	Progress    int    `json:"progress"`
	Unlocked    bool   `json:"unlocked"`
}

var achievementDefs = []struct {
	id, title, description string
	goal                   int
	metric                 func(Stats) int
}{
	{"first-win", "First Blood", "Win your first match.", 1, func(s Stats) int { return s.Wins }},
	{"cardslinger", "Card Slinger", "Play 100 cards total.", 100, func(s Stats) int { return s.CardsPlayed }},
	{"defuse-pro", "Defuse Pro", "Use 15 Defuse cards.", 15, func(s Stats) int { return s.DefusesUsed }},
	{"sticky-fingers", "Sticky Fingers", "Steal 25 cards from opponents.", 25, func(s Stats) int { return s.CardsStolen }},
	{"streak-master", "Streak Master", "Reach a 5-win streak.", 5, func(s Stats) int { return s.BestWinStreak }},
	{"legend", "Table Legend", "Win 50 matches.", 50, func(s Stats) int { return s.Wins }},
	{"xp-grinder", "XP Grinder", "Reach level 10.", 10, func(s Stats) int { return Level(s.XP).Level }},
}

func Achievements(s Stats) []Achievement {
	out := make([]Achievement, 0, len(achievementDefs))
	for _, def := range achievementDefs {
		value := def.metric(s)
		progress := value
		if progress > def.goal {
			progress = def.goal
		}
		out = append(out, Achievement{
			ID:          def.id,
			Title:       def.title,
			Description: def.description,
			Goal:        def.goal,
			Progress:    progress,
			Unlocked:    value >= def.goal,
		})
	}
	return out
}

// Profile 对外展示的完整统计
type Profile struct {
	Stats        Stats         `json:"stats"`
	Level        LevelInfo     `json:"level"`
	Rank         RankInfo      `json:"rank"`
	Achievements []Achievement `json:"achievements"`
}

func BuildProfile(s Stats) Profile {
	return Profile{
		Stats:        s,
		Level:        Level(s.XP),
		Rank:         Rank(s.Wins),
		Achievements: Achievements(s),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
