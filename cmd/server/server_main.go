package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	nethttp "net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"WordDice/internal/actor"
	"WordDice/internal/app"
	"WordDice/internal/battle"
	"WordDice/internal/interfaces"
	"WordDice/internal/rules"
	"WordDice/internal/shared/logs"
	"WordDice/internal/shared/serverconfig"
	transportgrpc "WordDice/internal/shared/transport/grpc"
	transporthttp "WordDice/internal/shared/transport/http"
	"WordDice/internal/shared/transport/ws"
	"WordDice/internal/shared/utils"
	"WordDice/internal/storage/factory"
	"WordDice/internal/tournament"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfgName := flag.String("config", "", "配置文件路径，默认向上查找 configs/conf.yml")
	flag.Parse()

	var svcRef atomic.Pointer[app.SimulationService]
	path := serverconfig.Load(*cfgName, func() {
		conf := serverconfig.Snapshot()
		logs.SetLevel(conf.Log.Level)
		if svc := svcRef.Load(); svc != nil {
			svc.SetLimits(limitsOf(conf))
		}
		logs.Info("config reloaded", zap.String("level", conf.Log.Level), zap.Any("simulation", conf.Simulation))
	})
	conf := serverconfig.Snapshot()
	if err := logs.Init("worddice", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.String("path", path), zap.Any("simulation", conf.Simulation), zap.String("storage", conf.Storage.Driver))

	r, err := loadRules(conf.Simulation.RulesFile)
	if err != nil {
		logs.Fatal("load rules failed", zap.String("file", conf.Simulation.RulesFile), zap.Error(err))
	}
	engine := battle.NewEngine(r, conf.Simulation.MaxRounds)

	exec, shutdownExec := newExecutor(engine, conf.Simulation)
	defer shutdownExec()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancelOpen := context.WithTimeout(ctx, 15*time.Second)
	repo, closeRepo, err := factory.Open(openCtx, conf)
	cancelOpen()
	if err != nil {
		logs.Fatal("open report storage failed", zap.String("driver", conf.Storage.Driver), zap.Error(err))
	}
	defer closeRepo()

	ids, err := utils.NewSnowflake(conf.Storage.NodeID)
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}

	svc := app.NewSimulationService(engine, exec, repo, ids, logs.L(), limitsOf(conf))
	svcRef.Store(svc)

	module := interfaces.New(svc, logs.L(), func() bool {
		return serverconfig.Snapshot().Security.RequireToken
	})

	httpServer := transporthttp.NewHttpServer(conf.HTTPAddr(), nil, logs.L())
	httpServer.Register(module)

	wsRouter := ws.NewRouter(logs.L())
	wsServer := ws.NewServer(wsRouter, conf.WS.NeedSecret, logs.L())
	wsServer.Register(module)
	httpServer.Engine().GET(conf.WS.Path, gin.WrapH(wsServer))

	grpcServer := transportgrpc.NewServer(logs.L(), module.GrpcServerOptions()...)
	module.GrpcRegister(grpcServer)
	lis, err := net.Listen("tcp", conf.GRPCAddr())
	if err != nil {
		logs.Fatal("listen grpc failed", zap.String("addr", conf.GRPCAddr()), zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		logs.Info("http server started", zap.String("addr", conf.HTTPAddr()), zap.String("ws", conf.WS.Path))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("http server start failed: %w", err)
		}
	}()
	go func() {
		logs.Info("grpc server started", zap.String("addr", conf.GRPCAddr()))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc serve failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		logs.Error("服务异常退出", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	stopCh := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopCh)
	}()
	select {
	case <-stopCh:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}
}

func loadRules(file string) (*rules.Rules, error) {
	if file == "" {
		return rules.Default()
	}
	return rules.Load(file)
}

func newExecutor(engine *battle.Engine, sc serverconfig.SimulationConfig) (tournament.Executor, func()) {
	switch sc.Executor {
	case "actor":
		rt := actor.NewRuntime(engine, sc.Workers, sc.Timeout)
		return rt, rt.Shutdown
	default:
		return tournament.NewLocalExecutor(engine, sc.Workers), func() {}
	}
}

func limitsOf(c serverconfig.Config) app.Limits {
	return app.Limits{
		DefaultTrials: c.Simulation.DefaultTrials,
		MaxTrials:     c.Simulation.MaxTrials,
		MaxWords:      c.Simulation.MaxWords,
		MaxWordLen:    c.Simulation.MaxWordLen,
		Timeout:       c.Simulation.Timeout,
	}
}
