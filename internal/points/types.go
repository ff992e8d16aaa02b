package points

import (
	"encoding/binary"
	"fmt"
)

const (
	// BytesPerPoint は1点あたりのバイト数
	BytesPerPoint = 8
	// DefaultChunkPoints は1チャンクあたりの点の数
	DefaultChunkPoints = 4096
	// DefaultChunkBytes は満杯のチャンクのバイト数
	DefaultChunkBytes = DefaultChunkPoints * BytesPerPoint
)

// Point は座標のサンプル1組を表す
type Point struct {
	X uint32
	Y uint32
}

// Limit は生成する点の総数を表す
// ゼロ値は無制限
type Limit struct {
	n       uint64
	bounded bool
}

// Unbounded は受け取り側が切断するまで生成し続ける Limit を返す
func Unbounded() Limit {
	return Limit{}
}

// Bounded は n 点で終了する Limit を返す
func Bounded(n uint64) Limit {
	return Limit{n: n, bounded: true}
}

// IsBounded は総数が決まっているかどうかを返す
func (l Limit) IsBounded() bool {
	return l.bounded
}

// N は総数を返す。無制限の場合は0
func (l Limit) N() uint64 {
	return l.n
}

// String はログ用の表現を返す
func (l Limit) String() string {
	if !l.bounded {
		return "unbounded"
	}
	return fmt.Sprintf("%d", l.n)
}

// Sink はチャンクを1つずつ受け取る
type Sink interface {
	// Deliver はチャンクを渡す。受け取り側がもういない場合は false を返す
	Deliver(chunk []byte) bool
}

// Stats は1回の生成の結果
type Stats struct {
	Points       uint64 // 受け渡した点の数
	Chunks       uint64 // 受け渡したチャンクの数
	Disconnected bool   // 受け取り側の切断で終了したか
}

// AppendPoint は点をワイヤ形式でbufに追加する
func AppendPoint(buf []byte, p Point) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, p.X)
	return binary.LittleEndian.AppendUint32(buf, p.Y)
}

// DecodePoints はワイヤ形式のバイト列を点に戻す
func DecodePoints(data []byte) ([]Point, error) {
	if len(data)%BytesPerPoint != 0 {
		return nil, fmt.Errorf("バイト数が%dの倍数ではありません: %d", BytesPerPoint, len(data))
	}

	pts := make([]Point, 0, len(data)/BytesPerPoint)
	for off := 0; off < len(data); off += BytesPerPoint {
		pts = append(pts, Point{
			X: binary.LittleEndian.Uint32(data[off:]),
			Y: binary.LittleEndian.Uint32(data[off+4:]),
		})
	}
	return pts, nil
}
