package points

import "encoding/binary"

// Generator は乱数点をチャンク単位で生成する
type Generator struct {
	chunkPoints uint64
	newSource   func() Source
}

// GeneratorOption は Generator の設定を変更する
type GeneratorOption func(*Generator)

// WithChunkPoints は1チャンクあたりの点の数を指定する
func WithChunkPoints(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.chunkPoints = uint64(n)
		}
	}
}

// WithSourceFactory は乱数源の生成関数を差し替える
// Run のたびに呼ばれ、返された Source はその Run だけが使う
func WithSourceFactory(f func() Source) GeneratorOption {
	return func(g *Generator) {
		if f != nil {
			g.newSource = f
		}
	}
}

// NewGenerator は新しい Generator を作成する
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		chunkPoints: DefaultChunkPoints,
		newSource:   NewSource,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ChunkPoints は1チャンクあたりの点の数を返す
func (g *Generator) ChunkPoints() int {
	return int(g.chunkPoints)
}

// Run は limit に達するか sink が受け付けなくなるまでチャンクを生成する
// 呼び出し元のゴルーチンをブロックする
func (g *Generator) Run(limit Limit, sink Sink) Stats {
	src := g.newSource()
	remaining := limit.n

	var stats Stats
	for {
		if limit.bounded && remaining == 0 {
			return stats
		}

		count := g.chunkPoints
		if limit.bounded {
			count = min(remaining, g.chunkPoints)
		}

		chunk := make([]byte, count*BytesPerPoint)
		fill(src, chunk)

		if !sink.Deliver(chunk) {
			stats.Disconnected = true
			return stats
		}

		stats.Points += count
		stats.Chunks++
		if limit.bounded {
			remaining -= count
		}
	}
}

// fill はbufを乱数点で埋める。x, y の順に独立した値を書き込む
func fill(src Source, buf []byte) {
	for off := 0; off+BytesPerPoint <= len(buf); off += BytesPerPoint {
		binary.LittleEndian.PutUint32(buf[off:], src.Uint32())
		binary.LittleEndian.PutUint32(buf[off+4:], src.Uint32())
	}
}
