package dto

type WsMessageType string

const (
	WsMessageView   WsMessageType = "view"
	WsMessagePoll   WsMessageType = "poll"
	WsMessageAction WsMessageType = "action"
	WsMessageStart  WsMessageType = "start"
	WsMessageError  WsMessageType = "error"
)

// WsRequest 客户端通过 websocket 发来的消息
type WsRequest struct {
	Type         WsMessageType          `json:"type"`
	LastRevision int64                  `json:"lastRevision"`
	Payload      map[string]interface{} `json:"payload"`
}

// WsResponse 只回给发送方
type WsResponse struct {
	Type WsMessageType `json:"type"`
	Data interface{}   `json:"data,omitempty"`
	Msg  string        `json:"msg,omitempty"`
	Code string        `json:"code,omitempty"`
}
