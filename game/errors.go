package game

import "fmt"

type ViolationCode string

const (
	CodeNotPlaying       ViolationCode = "not_playing"
	CodeUnknownPlayer    ViolationCode = "unknown_player"
	CodePlayerEliminated ViolationCode = "player_eliminated"
	CodeUnknownCard      ViolationCode = "unknown_card"
	CodeWrongTurn        ViolationCode = "wrong_turn"
	CodePendingMismatch  ViolationCode = "pending_mismatch"
	CodeInvalidTarget    ViolationCode = "invalid_target"
	CodeMismatchedSet    ViolationCode = "mismatched_set"
	CodeMalformedAction  ViolationCode = "malformed_action"
	CodeEmptyDeck        ViolationCode = "empty_deck"
)

// RuleViolation 动作不符合规则，可以原样返回给客户端
type RuleViolation struct {
	Code   ViolationCode
	Reason string
}

func (e *RuleViolation) Error() string {
	if e.Reason == "" {
		return string(e.Code)
	}
	return e.Reason
}

// Is 按错误码匹配，errors.Is(err, ErrWrongTurn) 不关心具体描述
func (e *RuleViolation) Is(target error) bool {
	t, ok := target.(*RuleViolation)
	return ok && t.Code == e.Code
}

var (
	ErrNotPlaying       = &RuleViolation{Code: CodeNotPlaying, Reason: "game is not in progress"}
	ErrUnknownPlayer    = &RuleViolation{Code: CodeUnknownPlayer, Reason: "player not in this game"}
	ErrPlayerEliminated = &RuleViolation{Code: CodePlayerEliminated, Reason: "player has been eliminated"}
	ErrUnknownCard      = &RuleViolation{Code: CodeUnknownCard, Reason: "card not in hand"}
	ErrWrongTurn        = &RuleViolation{Code: CodeWrongTurn, Reason: "not your turn"}
	ErrPendingMismatch  = &RuleViolation{Code: CodePendingMismatch, Reason: "action does not answer the pending action"}
	ErrInvalidTarget    = &RuleViolation{Code: CodeInvalidTarget, Reason: "invalid target player"}
	ErrMismatchedSet    = &RuleViolation{Code: CodeMismatchedSet, Reason: "cards do not form a matching cat set"}
	ErrMalformedAction  = &RuleViolation{Code: CodeMalformedAction, Reason: "malformed action"}
	ErrEmptyDeck        = &RuleViolation{Code: CodeEmptyDeck, Reason: "deck is empty"}
)

func violation(code ViolationCode, format string, args ...interface{}) *RuleViolation {
	return &RuleViolation{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// PreconditionError 对局生命周期（加入、开始）上的前置条件不满足
type PreconditionError string

func (e PreconditionError) Error() string { return string(e) }

const (
	ErrTooFewPlayers  PreconditionError = "need at least 2 players to start"
	ErrAlreadyStarted PreconditionError = "game already started"
	ErrMatchFull      PreconditionError = "game is full"
	ErrNotHost        PreconditionError = "only the host can start the game"
)
