package game

import "kitten-game/entities"

type (
	Card        = entities.Card
	CardType    = entities.CardType
	PendingKind = entities.PendingKind
)

const (
	PendingFavorGive   = entities.PendingFavorGive
	PendingDefusePlace = entities.PendingDefusePlace
	PendingPeekFuture  = entities.PendingPeekFuture
	PendingStealRandom = entities.PendingStealRandom
	PendingStealNamed  = entities.PendingStealNamed
)
