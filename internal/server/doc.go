// Package server は、HTTPサーバーと点列ストリームの配信を管理します。
//
// このパッケージは、HTTPサーバーの起動、ルーティング、
// 点列のストリーミング配信、静的ファイルの配信を担当します。
//
// 責務:
//   - HTTPサーバーの起動とグレースフルシャットダウン
//   - /points のパラメータ検証とチャンク転送によるストリーミング
//   - /points/ws のWebSocketによるストリーミング
//   - フロントエンドの静的ファイル配信（ディレクトリがない場合は固定メッセージ）
//   - リクエストIDの付与とアクセスログ
//
// 仕様:
//   - ルーティングはgin、/points と /health はopenapi.yamlから生成したハンドラを使用
//   - 点の生成は points.Sessions に任せ、このパッケージはキューから読んで書き込むだけ
//   - クライアントの切断はエラーではなく配信の終了として扱う
//   - 配信中のストリームにはタイムアウトを設けない
package server
