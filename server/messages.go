package server

import "encoding/json"

// 出站事件名
const (
	EvtSetToken     = "setToken"
	EvtJoinSuccess  = "joinSuccess"
	EvtLobbyUpdate  = "lobbyUpdate"
	EvtStart        = "start"
	EvtUpdateState  = "updateState"
	EvtPlayAgain    = "playAgain"
	EvtKickPlayer   = "kickPlayer"
	EvtInvalidToken = "invalidToken"
	EvtError        = "error"
)

// Envelope 双向通用的 JSON 帧：{"type": ..., "payload": ...}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PlayerState 为广播给客户端的玩家状态
type PlayerState struct {
	ID        string    `json:"playerId"`
	Name      string    `json:"playerName"`
	Alive     bool      `json:"alive"`
	Direction Direction `json:"direction"`
	Color     string    `json:"color"`
	Segments  []Point   `json:"segments"`
}

// RoomState 房间快照；不包含密码
type RoomState struct {
	ID          string        `json:"id"`
	Name        string        `json:"roomName"`
	HasPassword bool          `json:"hasPassword"`
	HostID      string        `json:"hostId"`
	Players     []PlayerState `json:"players"`
	Food        *Point        `json:"food"`
	Active      bool          `json:"active"`
}

// ErrorMessage error / invalidToken 的载荷
type ErrorMessage struct {
	Message string `json:"message"`
}

func encodeEnvelope(typ string, payload any) ([]byte, error) {
	env := Envelope{Type: typ}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}
