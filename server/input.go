package server

import (
	"encoding/json"
	"errors"
)

// 入站消息类型
const (
	MsgCreateRoom      = "createRoom"
	MsgJoinRoom        = "joinRoom"
	MsgLeaveRoom       = "leaveRoom"
	MsgStartGame       = "startGame"
	MsgChangeDirection = "changeDirection"
	MsgPlayAgain       = "playAgain"
	MsgReconnectPlayer = "reconnectPlayer"
)

// 示例：{"type":"createRoom","payload":{"roomName":"Alpha","playerName":"Bob"}}
type roomRequest struct {
	RoomName   string `json:"roomName"`
	Password   string `json:"password,omitempty"`
	PlayerName string `json:"playerName"`
}

type roomRef struct {
	ID string `json:"id"`
}

// 示例：{"type":"changeDirection","payload":{"direction":"up","room":{"id":"..."}}}
type directionRequest struct {
	Direction string  `json:"direction"`
	Room      roomRef `json:"room"`
}

type reconnectRequest struct {
	OldPlayerID string `json:"oldPlayerId"`
}

// Dispatch 解析一帧入站消息并交给对应处理器
// 错误只回报给发起连接；非法转向静默丢弃
func (s *Server) Dispatch(connID string, frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		s.metrics.IncMalformed()
		Log.Debugf("conn %s: malformed frame: %v", connID, err)
		return
	}

	var err error
	switch env.Type {
	case MsgCreateRoom:
		var req roomRequest
		if err = decodePayload(env, &req); err == nil {
			err = s.CreateRoom(connID, req.RoomName, req.Password, req.PlayerName)
		}
	case MsgJoinRoom:
		var req roomRequest
		if err = decodePayload(env, &req); err == nil {
			err = s.JoinRoom(connID, req.RoomName, req.Password, req.PlayerName)
		}
	case MsgLeaveRoom:
		var ref roomRef
		if err = decodePayload(env, &ref); err == nil {
			s.LeaveRoom(connID, ref.ID)
		}
	case MsgStartGame:
		var ref roomRef
		if err = decodePayload(env, &ref); err == nil {
			err = s.StartGame(connID, ref.ID)
		}
	case MsgPlayAgain:
		var ref roomRef
		if err = decodePayload(env, &ref); err == nil {
			s.PlayAgain(connID, ref.ID)
		}
	case MsgChangeDirection:
		var req directionRequest
		if err = decodePayload(env, &req); err == nil {
			err = s.ChangeDirection(connID, req.Room.ID, req.Direction)
		}
	case MsgReconnectPlayer:
		var req reconnectRequest
		if err = decodePayload(env, &req); err == nil {
			err = s.Reconnect(connID, req.OldPlayerID)
		}
	default:
		s.metrics.IncMalformed()
		Log.Debugf("conn %s: unknown message type %q", connID, env.Type)
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil:
		s.metrics.IncAccepted()
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		s.metrics.IncMalformed()
		Log.Debugf("conn %s: bad %s payload: %v", connID, env.Type, err)
	default:
		s.reply(connID, err)
	}
}

func decodePayload(env Envelope, v any) error {
	if len(env.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(env.Payload, v)
}

// reply 把错误转换为出站事件，仅发给发起连接
func (s *Server) reply(connID string, err error) {
	switch {
	case errors.Is(err, ErrInvalidTurn):
		Log.Debugf("conn %s: turn dropped", connID)
		return
	case errors.Is(err, ErrInvalidToken):
		s.mu.Lock()
		s.sendLocked(connID, EvtInvalidToken, ErrorMessage{Message: err.Error()})
		s.mu.Unlock()
	default:
		s.mu.Lock()
		s.sendLocked(connID, EvtError, ErrorMessage{Message: err.Error()})
		s.mu.Unlock()
	}
}
