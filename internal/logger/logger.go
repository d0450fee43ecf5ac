// Package logger はzapのグローバルロガーを提供する。
package logger

import "go.uber.org/zap"

// Log はプロジェクト全体で使うロガー。
var Log *zap.Logger

// Init は環境に応じてロガーを構成する（prod以外は開発用）。
func Init(env string) {
	var err error
	if env == "prod" {
		Log, err = zap.NewProduction()
	} else {
		Log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
}
