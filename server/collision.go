package server

// hasCollision 判断 head 是否与房间内任何身体节重合
// 检查自身时跳过第 0 节（移动尚未提交，头仍占据该格）
func hasCollision(head Point, player *Player, room *Room) bool {
	for _, other := range room.Players {
		start := 0
		if other == player {
			start = 1
		}
		for _, seg := range other.Segments[start:] {
			if seg == head {
				return true
			}
		}
	}
	return false
}
