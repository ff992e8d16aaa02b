package points

import (
	"bytes"
	"testing"
)

// counterSource は0から順に値を返す決定的な乱数源
type counterSource struct {
	next uint32
}

func (c *counterSource) Uint32() uint32 {
	v := c.next
	c.next++
	return v
}

func newCounterSource() Source {
	return &counterSource{}
}

// recordingSink は受け取ったチャンクを記録する
// accept 個まで受け付けた後は false を返す (負なら無制限)
type recordingSink struct {
	chunks [][]byte
	accept int
}

func (r *recordingSink) Deliver(chunk []byte) bool {
	if r.accept >= 0 && len(r.chunks) >= r.accept {
		return false
	}
	r.chunks = append(r.chunks, chunk)
	return true
}

func (r *recordingSink) bytes() []byte {
	return bytes.Join(r.chunks, nil)
}

func TestGenerator_BoundedExactCount(t *testing.T) {
	testCases := []struct {
		name       string
		n          uint64
		chunk      int
		wantChunks int
		lastPoints int
	}{
		{"1点", 1, 4096, 1, 1},
		{"1000点", 1000, 4096, 1, 1000},
		{"ちょうど1チャンク", 4096, 4096, 1, 4096},
		{"1チャンクと1点", 4097, 4096, 2, 1},
		{"小さいチャンクで割り切れない", 23, 5, 5, 3},
		{"小さいチャンクで割り切れる", 20, 5, 4, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGenerator(WithChunkPoints(tc.chunk))
			sink := &recordingSink{accept: -1}

			stats := g.Run(Bounded(tc.n), sink)

			if stats.Points != tc.n {
				t.Errorf("points: got %d, want %d", stats.Points, tc.n)
			}
			if stats.Disconnected {
				t.Error("切断されていないのに Disconnected が true です")
			}
			if len(sink.chunks) != tc.wantChunks || stats.Chunks != uint64(tc.wantChunks) {
				t.Fatalf("chunks: got %d (stats %d), want %d", len(sink.chunks), stats.Chunks, tc.wantChunks)
			}
			for i, c := range sink.chunks[:len(sink.chunks)-1] {
				if len(c) != tc.chunk*BytesPerPoint {
					t.Errorf("chunk %d: got %d bytes, want %d", i, len(c), tc.chunk*BytesPerPoint)
				}
			}
			last := sink.chunks[len(sink.chunks)-1]
			if len(last) != tc.lastPoints*BytesPerPoint {
				t.Errorf("last chunk: got %d bytes, want %d", len(last), tc.lastPoints*BytesPerPoint)
			}
			if got := len(sink.bytes()); got != int(tc.n)*BytesPerPoint {
				t.Errorf("total bytes: got %d, want %d", got, tc.n*BytesPerPoint)
			}
		})
	}
}

func TestGenerator_ZeroLimitProducesNothing(t *testing.T) {
	g := NewGenerator()
	sink := &recordingSink{accept: -1}

	stats := g.Run(Bounded(0), sink)

	if len(sink.chunks) != 0 || stats.Points != 0 {
		t.Errorf("Bounded(0) でチャンクが生成されました: %d", len(sink.chunks))
	}
}

func TestGenerator_StopsWhenSinkRefuses(t *testing.T) {
	g := NewGenerator(WithChunkPoints(16))

	t.Run("無制限", func(t *testing.T) {
		sink := &recordingSink{accept: 3}
		stats := g.Run(Unbounded(), sink)

		if !stats.Disconnected {
			t.Error("Disconnected が false です")
		}
		if stats.Chunks != 3 || stats.Points != 48 {
			t.Errorf("stats: got %+v, want 3 chunks / 48 points", stats)
		}
	})

	t.Run("上限あり", func(t *testing.T) {
		sink := &recordingSink{accept: 1}
		stats := g.Run(Bounded(1000), sink)

		if !stats.Disconnected {
			t.Error("Disconnected が false です")
		}
		if stats.Points != 16 {
			t.Errorf("points: got %d, want 16", stats.Points)
		}
	})

	t.Run("最初から拒否", func(t *testing.T) {
		sink := &recordingSink{accept: 0}
		stats := g.Run(Unbounded(), sink)

		if !stats.Disconnected || stats.Chunks != 0 {
			t.Errorf("stats: got %+v", stats)
		}
	})
}

func TestGenerator_WireLayout(t *testing.T) {
	g := NewGenerator(WithChunkPoints(3), WithSourceFactory(newCounterSource))
	sink := &recordingSink{accept: -1}

	g.Run(Bounded(7), sink)

	pts, err := DecodePoints(sink.bytes())
	if err != nil {
		t.Fatalf("DecodePoints: %v", err)
	}
	if len(pts) != 7 {
		t.Fatalf("points: got %d, want 7", len(pts))
	}
	// x, y の順に連続した値が入り、チャンク境界をまたいでも続く
	for i, p := range pts {
		want := Point{X: uint32(2 * i), Y: uint32(2*i + 1)}
		if p != want {
			t.Errorf("point %d: got %+v, want %+v", i, p, want)
		}
	}

	// 先頭の点はリトルエンディアン
	want := AppendPoint(nil, Point{X: 0, Y: 1})
	if !bytes.Equal(sink.chunks[0][:BytesPerPoint], want) {
		t.Errorf("先頭8バイト: got %v, want %v", sink.chunks[0][:BytesPerPoint], want)
	}
}

func TestGenerator_SourcePerRun(t *testing.T) {
	calls := 0
	g := NewGenerator(WithSourceFactory(func() Source {
		calls++
		return &counterSource{}
	}))

	a := &recordingSink{accept: -1}
	b := &recordingSink{accept: -1}
	g.Run(Bounded(10), a)
	g.Run(Bounded(10), b)

	if calls != 2 {
		t.Errorf("乱数源の生成回数: got %d, want 2", calls)
	}
	// 各 Run は新しい乱数源から始まる
	if !bytes.Equal(a.bytes(), b.bytes()) {
		t.Error("決定的な乱数源なのに結果が異なります")
	}
}

func TestNewSource_Independent(t *testing.T) {
	g := NewGenerator()
	a := &recordingSink{accept: -1}
	b := &recordingSink{accept: -1}

	g.Run(Bounded(64), a)
	g.Run(Bounded(64), b)

	if bytes.Equal(a.bytes(), b.bytes()) {
		t.Error("2回の生成結果が一致しました")
	}
}

func TestDecodePoints(t *testing.T) {
	data := AppendPoint(nil, Point{X: 0x01020304, Y: 0xa0b0c0d0})
	want := []byte{0x04, 0x03, 0x02, 0x01, 0xd0, 0xc0, 0xb0, 0xa0}
	if !bytes.Equal(data, want) {
		t.Fatalf("AppendPoint: got %x, want %x", data, want)
	}

	pts, err := DecodePoints(data)
	if err != nil {
		t.Fatalf("DecodePoints: %v", err)
	}
	if len(pts) != 1 || pts[0].X != 0x01020304 || pts[0].Y != 0xa0b0c0d0 {
		t.Errorf("DecodePoints: got %+v", pts)
	}

	if _, err := DecodePoints(data[:7]); err == nil {
		t.Error("8の倍数でない長さでエラーになりませんでした")
	}
}

func TestLimit(t *testing.T) {
	if Unbounded().IsBounded() {
		t.Error("Unbounded が上限ありになっています")
	}
	if (Limit{}) != Unbounded() {
		t.Error("ゼロ値が Unbounded ではありません")
	}
	l := Bounded(12)
	if !l.IsBounded() || l.N() != 12 {
		t.Errorf("Bounded(12): got %+v", l)
	}
	if l.String() != "12" || Unbounded().String() != "unbounded" {
		t.Errorf("String: got %q / %q", l.String(), Unbounded().String())
	}
}
