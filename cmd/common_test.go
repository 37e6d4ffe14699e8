package cmd

import (
	"testing"

	"WordDice/internal/shared/config"
	"WordDice/internal/shared/logs"
	"WordDice/internal/shared/serverconfig"

	"go.uber.org/zap"
)

func TestReadConfig(t *testing.T) {
	conf, err := serverconfig.Read("")
	if err != nil {
		t.Fatalf("读取 configs/conf.yml 失败: %v", err)
	}
	if conf.Storage.Driver == "" || conf.WS.Path == "" || conf.Simulation.MaxRounds <= 0 {
		t.Fatalf("默认值未补齐: %+v", conf)
	}
	if err := logs.Init("TestReadConfig", config.LogConfig{Level: conf.Log.Level}); err != nil {
		t.Fatalf("logs.Init err=%v", err)
	}
	logs.Info("conf", zap.Any("conf", conf))
}
