package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const seatIssuer = "kitten-seat"

var ErrInvalidToken = errors.New("invalid token")

// SeatClaims 座位凭证：持有者可以以 PlayerID 的身份在 MatchID 中行动
type SeatClaims struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *TokenIssuer) Issue(matchID, playerID string) (string, error) {
	now := time.Now()
	claims := SeatClaims{
		MatchID:  matchID,
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    seatIssuer,
			Subject:   playerID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *TokenIssuer) Parse(tokenStr string) (*SeatClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SeatClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SeatClaims); ok && token.Valid && claims.Issuer == seatIssuer {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
