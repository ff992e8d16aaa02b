// Package points は乱数点列の生成とチャンク単位の受け渡しを担う
//
// # 責務
// - 点 (x, y) の乱数生成とバイト列へのエンコード
// - 固定サイズのチャンクへの分割
// - 生成側と送信側をつなぐ受け渡しキュー
// - セッションごとの生成ゴルーチンの起動と追跡
//
// # 仕様
//   - 1点は8バイト: u32_le(x) || u32_le(y)
//   - チャンクは最大 DefaultChunkPoints 点、ヘッダーや長さプレフィックスなし
//   - 乱数源はセッションごとに独立したインスタンスを使い、共有しない
//   - 受け取り側が去ったら Sink.Deliver が false を返し、生成ループが終了する
//   - 1セッションが保持するメモリはキューの深さ分のチャンクに限られる
package points
