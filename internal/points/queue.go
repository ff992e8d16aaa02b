package points

import "sync"

// Queue は生成ゴルーチンと送信側をつなぐ受け渡しキュー
//
// 送り手は Deliver と Close、受け手は Chunks と Abandon だけを使う。
// それぞれの端はちょうど1つのゴルーチンが所有する。
type Queue struct {
	chunks chan []byte
	done   chan struct{}

	abandonOnce sync.Once
	closeOnce   sync.Once
}

// NewQueue は depth 個までチャンクを溜められるキューを作成する
// depth が0の場合は受け手が読むまで Deliver がブロックする
func NewQueue(depth int) *Queue {
	if depth < 0 {
		depth = 0
	}
	return &Queue{
		chunks: make(chan []byte, depth),
		done:   make(chan struct{}),
	}
}

// Deliver はチャンクをキューに入れる
// 受け手が Abandon した後は false を返す
func (q *Queue) Deliver(chunk []byte) bool {
	// 受け手が既に去っていれば送らない
	select {
	case <-q.done:
		return false
	default:
	}

	select {
	case q.chunks <- chunk:
		return true
	case <-q.done:
		return false
	}
}

// Close は送り手側の終了を通知する。Chunks のチャンネルがクローズされる
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.chunks)
	})
}

// Chunks は受け手が読むチャンネルを返す
func (q *Queue) Chunks() <-chan []byte {
	return q.chunks
}

// Abandon は受け手がもう読まないことを通知する
// 何度呼んでもよい
func (q *Queue) Abandon() {
	q.abandonOnce.Do(func() {
		close(q.done)
	})
}

// Abandoned は Abandon 済みならクローズされるチャンネルを返す
func (q *Queue) Abandoned() <-chan struct{} {
	return q.done
}
