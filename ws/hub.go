package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"kitten-game/dto"
	"kitten-game/game"
	"kitten-game/service"
	"kitten-game/utils"
)

const requestTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var errUnknownMessage = errors.New("unknown message type")

// session 一条连接对应的玩家座位
type session struct {
	matchID  string
	playerID string
}

type messageHandler func(ctx context.Context, s session, req dto.WsRequest) (interface{}, error)

// Handler websocket 入口。客户端主动发 view/poll/action/start，服务端只回复发送方，不做广播。
type Handler struct {
	svc      *service.MatchService
	tokens   *utils.TokenIssuer
	log      *zap.Logger
	handlers map[dto.WsMessageType]messageHandler
}

func NewHandler(svc *service.MatchService, tokens *utils.TokenIssuer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{svc: svc, tokens: tokens, log: logger}
	h.handlers = map[dto.WsMessageType]messageHandler{
		dto.WsMessageView:   h.handleView,
		dto.WsMessagePoll:   h.handlePoll,
		dto.WsMessageAction: h.handleAction,
		dto.WsMessageStart:  h.handleStart,
	}
	return h
}

// HandleWebSocket 握手前先校验 query 里的座位 token
func (h *Handler) HandleWebSocket(c *gin.Context) {
	claims, err := h.tokens.Parse(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status_code": http.StatusUnauthorized, "msg": "token 无效"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s := session{matchID: claims.MatchID, playerID: claims.PlayerID}
	h.log.Info("player connected", zap.String("matchId", s.matchID), zap.String("playerId", s.playerID))
	defer h.log.Info("player disconnected", zap.String("matchId", s.matchID), zap.String("playerId", s.playerID))

	if err := conn.WriteJSON(dto.WsResponse{Type: "init", Data: gin.H{"matchId": s.matchID, "playerId": s.playerID}}); err != nil {
		return
	}
	h.listen(c.Request.Context(), conn, s)
}

func (h *Handler) listen(ctx context.Context, conn *websocket.Conn, s session) {
	for {
		var req dto.WsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("read message failed", zap.String("playerId", s.playerID), zap.Error(err))
			}
			return
		}
		if err := conn.WriteJSON(h.dispatch(ctx, s, req)); err != nil {
			h.log.Warn("write message failed", zap.String("playerId", s.playerID), zap.Error(err))
			return
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, s session, req dto.WsRequest) dto.WsResponse {
	handler, ok := h.handlers[req.Type]
	if !ok {
		return dto.WsResponse{Type: dto.WsMessageError, Msg: errUnknownMessage.Error()}
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	data, err := handler(ctx, s, req)
	if err != nil {
		resp := dto.WsResponse{Type: dto.WsMessageError, Msg: err.Error()}
		var rv *game.RuleViolation
		if errors.As(err, &rv) {
			resp.Code = string(rv.Code)
		}
		return resp
	}
	return dto.WsResponse{Type: req.Type, Data: data}
}

func (h *Handler) handleView(ctx context.Context, s session, _ dto.WsRequest) (interface{}, error) {
	return h.svc.GetMatch(ctx, s.matchID, s.playerID)
}

func (h *Handler) handlePoll(ctx context.Context, s session, req dto.WsRequest) (interface{}, error) {
	return h.svc.Poll(ctx, s.matchID, s.playerID, req.LastRevision)
}

func (h *Handler) handleStart(ctx context.Context, s session, _ dto.WsRequest) (interface{}, error) {
	return h.svc.StartMatch(ctx, s.matchID, s.playerID)
}

func (h *Handler) handleAction(ctx context.Context, s session, req dto.WsRequest) (interface{}, error) {
	action, err := decodeActionPayload(req.Payload)
	if err != nil {
		return nil, err
	}
	return h.svc.SubmitAction(ctx, s.matchID, s.playerID, action)
}

// decodeActionPayload JSON 解出来的数字是 float64，交给 mapstructure 转成 int
func decodeActionPayload(payload map[string]interface{}) (dto.ActionRequest, error) {
	var req dto.ActionRequest
	if payload == nil {
		return req, game.ErrMalformedAction
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &req,
	})
	if err != nil {
		return req, err
	}
	if err := decoder.Decode(payload); err != nil {
		return req, &game.RuleViolation{Code: game.CodeMalformedAction, Reason: err.Error()}
	}
	return req, nil
}
