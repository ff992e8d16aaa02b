package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pistream/internal/points"
)

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

func TestPointsWebSocket_Bounded(t *testing.T) {
	srv, ts := newTestServer(t, testConfig(""), WithGenerator(deterministicGenerator(4096)))

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts.URL)+"/points/ws?n=10000", nil)
	if err != nil {
		t.Fatalf("WebSocket接続に失敗しました: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status: got %d, want 101", resp.StatusCode)
	}

	var sizes []int
	var all []byte
	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Fatalf("正常終了ではありません: %v", err)
			}
			break
		}
		if messageType != websocket.BinaryMessage {
			t.Fatalf("message type: got %d, want binary", messageType)
		}
		sizes = append(sizes, len(payload))
		all = append(all, payload...)
	}

	// 1メッセージが1チャンク
	want := []int{4096 * 8, 4096 * 8, 1808 * 8}
	if len(sizes) != len(want) {
		t.Fatalf("messages: got %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("message %d: got %d bytes, want %d", i, sizes[i], want[i])
		}
	}

	pts, err := points.DecodePoints(all)
	if err != nil {
		t.Fatalf("DecodePoints: %v", err)
	}
	if len(pts) != 10000 {
		t.Fatalf("points: got %d, want 10000", len(pts))
	}
	if last := pts[len(pts)-1]; last.X != 19998 || last.Y != 19999 {
		t.Errorf("last point: got %+v", last)
	}

	waitSessions(t, srv)
}

func TestPointsWebSocket_InvalidN(t *testing.T) {
	srv, ts := newTestServer(t, testConfig(""))

	for _, query := range []string{"n=0", "n=abc"} {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts.URL)+"/points/ws?"+query, nil)
		if !errors.Is(err, websocket.ErrBadHandshake) {
			t.Fatalf("%s: ErrBadHandshake が期待されましたが %v でした", query, err)
		}
		if resp == nil || resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status got %v, want 400", query, resp)
		}
	}

	if n := srv.Sessions().Total(); n != 0 {
		t.Errorf("Total: got %d, want 0", n)
	}
}

func TestPointsWebSocket_DisconnectReleasesSession(t *testing.T) {
	srv, ts := newTestServer(t, testConfig(""))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts.URL)+"/points/ws", nil)
	if err != nil {
		t.Fatalf("WebSocket接続に失敗しました: %v", err)
	}

	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("最初のメッセージの読み込みに失敗しました: %v", err)
	}
	if len(payload) != points.DefaultChunkBytes {
		t.Errorf("payload: got %d bytes, want %d", len(payload), points.DefaultChunkBytes)
	}

	conn.Close()

	waitSessions(t, srv)
}

func TestRelay(t *testing.T) {
	t.Run("クローズで終了", func(t *testing.T) {
		chunks := make(chan []byte, 3)
		chunks <- []byte{1, 2}
		chunks <- []byte{3}
		close(chunks)

		var got []byte
		n, err := relay(context.Background(), chunks, func(b []byte) error {
			got = append(got, b...)
			return nil
		})
		if err != nil {
			t.Fatalf("relay: %v", err)
		}
		if n != 3 || len(got) != 3 || got[2] != 3 {
			t.Errorf("got %d bytes %v", n, got)
		}
	})

	t.Run("書き込み失敗で終了", func(t *testing.T) {
		chunks := make(chan []byte, 1)
		chunks <- []byte{1}

		sendErr := errors.New("broken pipe")
		_, err := relay(context.Background(), chunks, func([]byte) error { return sendErr })
		if !errors.Is(err, sendErr) {
			t.Errorf("err: got %v, want %v", err, sendErr)
		}
	})

	t.Run("コンテキストの終了で終了", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		chunks := make(chan []byte)

		done := make(chan error, 1)
		go func() {
			_, err := relay(ctx, chunks, func([]byte) error { return nil })
			done <- err
		}()
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("err: got %v, want context.Canceled", err)
			}
		case <-time.After(time.Second):
			t.Fatal("relay が終了しません")
		}
	})
}
