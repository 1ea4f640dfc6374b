package entities

type CardType string

const (
	CardExplodingKitten CardType = "exploding_kitten"
	CardDefuse          CardType = "defuse"
	CardAttack          CardType = "attack"
	CardSkip            CardType = "skip"
	CardFavor           CardType = "favor"
	CardShuffle         CardType = "shuffle"
	CardSeeTheFuture    CardType = "see_the_future"
	CardNope            CardType = "nope"
	CardTacoCat         CardType = "taco_cat"
	CardRainbowCat      CardType = "rainbow_cat"
	CardBeardCat        CardType = "beard_cat"
	CardCattermelon     CardType = "cattermelon"
	CardPotatoCat       CardType = "potato_cat"

	// 仅用于对外视图的占位牌，不会出现在真实牌堆里
	CardHidden CardType = "hidden"
)

// HiddenCardID 视图中被遮挡的牌统一使用的 id
const HiddenCardID = "hidden"

var CatCardTypes = []CardType{
	CardTacoCat,
	CardRainbowCat,
	CardBeardCat,
	CardCattermelon,
	CardPotatoCat,
}

var cardNames = map[CardType]string{
	CardExplodingKitten: "Exploding Kitten",
	CardDefuse:          "Defuse",
	CardAttack:          "Attack",
	CardSkip:            "Skip",
	CardFavor:           "Favor",
	CardShuffle:         "Shuffle",
	CardSeeTheFuture:    "See the Future",
	CardNope:            "Nope",
	CardTacoCat:         "Taco Cat",
	CardRainbowCat:      "Rainbow Cat",
	CardBeardCat:        "Beard Cat",
	CardCattermelon:     "Cattermelon",
	CardPotatoCat:       "Potato Cat",
}

func (t CardType) IsCat() bool {
	for _, c := range CatCardTypes {
		if c == t {
			return true
		}
	}
	return false
}

// Valid 判断是否为可以真实存在于牌局中的牌型
func (t CardType) Valid() bool {
	_, ok := cardNames[t]
	return ok
}

// DisplayName 日志里展示用的牌名
func (t CardType) DisplayName() string {
	if name, ok := cardNames[t]; ok {
		return name
	}
	return string(t)
}

type Card struct {
	ID   string   `json:"id"`
	Type CardType `json:"type"`
}
