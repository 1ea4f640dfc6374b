package game

type ActionKind string

const (
	ActionPlayCard    ActionKind = "play_card"
	ActionPlayPair    ActionKind = "play_pair"
	ActionPlayTriple  ActionKind = "play_triple"
	ActionDraw        ActionKind = "draw"
	ActionDefusePlace ActionKind = "defuse_place"
	ActionFavorGive   ActionKind = "favor_give"
	ActionPeekAck     ActionKind = "peek_ack"
	ActionStealRandom ActionKind = "steal_random"
	ActionStealNamed  ActionKind = "steal_named"
	ActionNope        ActionKind = "nope"
)

// Action 玩家可以提交的所有动作，只有本包内定义的类型实现它
type Action interface {
	Kind() ActionKind
	Actor() string
	isAction()
}

// PlayCard 打出单张牌，favor 需要 TargetPlayerID
type PlayCard struct {
	PlayerID       string
	CardID         string
	TargetPlayerID string
}

// PlayPair 两张相同的猫牌，之后由出牌者选择偷谁
type PlayPair struct {
	PlayerID string
	CardIDs  [2]string
}

// PlayTriple 三张相同的猫牌，之后由出牌者指定对象和牌型
type PlayTriple struct {
	PlayerID string
	CardIDs  [3]string
}

type Draw struct {
	PlayerID string
}

// PlaceDefused 把拆掉的炸弹放回牌堆，Position 0 表示下一张
type PlaceDefused struct {
	PlayerID string
	Position int
}

type GiveFavor struct {
	PlayerID string
	CardID   string
}

type AckFuture struct {
	PlayerID string
}

type StealRandom struct {
	PlayerID       string
	TargetPlayerID string
}

type StealNamed struct {
	PlayerID       string
	TargetPlayerID string
	CardType       CardType
}

type Nope struct {
	PlayerID string
	CardID   string
}

func (PlayCard) Kind() ActionKind     { return ActionPlayCard }
func (PlayPair) Kind() ActionKind     { return ActionPlayPair }
func (PlayTriple) Kind() ActionKind   { return ActionPlayTriple }
func (Draw) Kind() ActionKind         { return ActionDraw }
func (PlaceDefused) Kind() ActionKind { return ActionDefusePlace }
func (GiveFavor) Kind() ActionKind    { return ActionFavorGive }
func (AckFuture) Kind() ActionKind    { return ActionPeekAck }
func (StealRandom) Kind() ActionKind  { return ActionStealRandom }
func (StealNamed) Kind() ActionKind   { return ActionStealNamed }
func (Nope) Kind() ActionKind         { return ActionNope }

func (a PlayCard) Actor() string     { return a.PlayerID }
func (a PlayPair) Actor() string     { return a.PlayerID }
func (a PlayTriple) Actor() string   { return a.PlayerID }
func (a Draw) Actor() string         { return a.PlayerID }
func (a PlaceDefused) Actor() string { return a.PlayerID }
func (a GiveFavor) Actor() string    { return a.PlayerID }
func (a AckFuture) Actor() string    { return a.PlayerID }
func (a StealRandom) Actor() string  { return a.PlayerID }
func (a StealNamed) Actor() string   { return a.PlayerID }
func (a Nope) Actor() string         { return a.PlayerID }

func (PlayCard) isAction()     {}
func (PlayPair) isAction()     {}
func (PlayTriple) isAction()   {}
func (Draw) isAction()         {}
func (PlaceDefused) isAction() {}
func (GiveFavor) isAction()    {}
func (AckFuture) isAction()    {}
func (StealRandom) isAction()  {}
func (StealNamed) isAction()   {}
func (Nope) isAction()         {}

// responseKinds 每种 pending 对应的唯一合法应答
var responseKinds = map[PendingKind]ActionKind{
	PendingFavorGive:   ActionFavorGive,
	PendingDefusePlace: ActionDefusePlace,
	PendingPeekFuture:  ActionPeekAck,
	PendingStealRandom: ActionStealRandom,
	PendingStealNamed:  ActionStealNamed,
}

// ResponseKind 返回某个 pending 需要的应答动作
func ResponseKind(kind PendingKind) ActionKind {
	return responseKinds[kind]
}

func isResponse(kind ActionKind) bool {
	for _, k := range responseKinds {
		if k == kind {
			return true
		}
	}
	return false
}
