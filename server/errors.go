package server

import "errors"

var (
	ErrRoomNameConflict = errors.New("A room with that name already exists.")
	ErrRoomNotFound     = errors.New("Room not found.")
	ErrBadCredentials   = errors.New("Incorrect password.")
	ErrInvalidToken     = errors.New("Invalid or expired player token.")
	ErrNotHost          = errors.New("Only the host can start the game.")
	ErrAlreadyBound     = errors.New("Connection already has a player.")

	// ErrInvalidTurn 非法转向：静默丢弃，不回报给客户端
	ErrInvalidTurn = errors.New("invalid turn")
)
