package points

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Sessions はリクエストごとの生成ゴルーチンを起動・追跡する
type Sessions struct {
	generator  *Generator
	queueDepth int
	logger     logrus.FieldLogger

	active atomic.Int64
	total  atomic.Uint64
	wg     sync.WaitGroup
}

// NewSessions は新しい Sessions を作成する
func NewSessions(generator *Generator, queueDepth int, logger logrus.FieldLogger) *Sessions {
	if generator == nil {
		generator = NewGenerator()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Sessions{
		generator:  generator,
		queueDepth: queueDepth,
		logger:     logger,
	}
}

// Open はキューを作成し、生成ゴルーチンを起動する
// 生成が終わるとキューはクローズされる。受け手は読み終えたら必ず Abandon を呼ぶこと
func (s *Sessions) Open(limit Limit, fields logrus.Fields) *Queue {
	q := NewQueue(s.queueDepth)
	log := s.logger.WithFields(fields).WithField("limit", limit.String())

	s.active.Add(1)
	s.total.Add(1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.active.Add(-1)
		defer q.Close()

		started := time.Now()
		stats := s.generator.Run(limit, q)

		log.WithFields(logrus.Fields{
			"points":       stats.Points,
			"chunks":       stats.Chunks,
			"disconnected": stats.Disconnected,
			"elapsed":      time.Since(started),
		}).Debug("点列の生成を終了しました")
	}()

	return q
}

// Active は実行中の生成ゴルーチンの数を返す
func (s *Sessions) Active() int64 {
	return s.active.Load()
}

// Total は起動したセッションの累計を返す
func (s *Sessions) Total() uint64 {
	return s.total.Load()
}

// ChunkPoints は1チャンクあたりの点の数を返す
func (s *Sessions) ChunkPoints() int {
	return s.generator.ChunkPoints()
}

// Wait は全ての生成ゴルーチンの終了を待つ
func (s *Sessions) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("生成ゴルーチンの終了待ちに失敗 (残り %d): %w", s.Active(), ctx.Err())
	}
}
