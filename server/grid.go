package server

import "math/rand"

// Point 网格坐标（像素），始终为 SegmentSize 的整数倍
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Board 棋盘尺寸与格子大小
type Board struct {
	Width       int
	Height      int
	SegmentSize int
}

// RandomPoint 在棋盘范围内均匀随机取一个对齐网格的坐标
func (b Board) RandomPoint(rng *rand.Rand) Point {
	return Point{
		X: rng.Intn(b.Width/b.SegmentSize) * b.SegmentSize,
		Y: rng.Intn(b.Height/b.SegmentSize) * b.SegmentSize,
	}
}

// Contains 判断坐标是否位于 [0,Width)×[0,Height)
func (b Board) Contains(p Point) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Step 沿方向平移一个格子
func (b Board) Step(p Point, dir Direction) Point {
	switch dir {
	case DirUp:
		p.Y -= b.SegmentSize
	case DirDown:
		p.Y += b.SegmentSize
	case DirLeft:
		p.X -= b.SegmentSize
	case DirRight:
		p.X += b.SegmentSize
	}
	return p
}
