package points

import "math/rand/v2"

// Source は非暗号用途の32ビット乱数源
// 1つのインスタンスは1つのゴルーチンからのみ使う
type Source interface {
	Uint32() uint32
}

// NewSource は独立にシードされたPCG乱数源を作成する
func NewSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
