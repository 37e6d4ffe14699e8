package main

import (
	"context"
	"errors"
	"os"
	"time"

	"WordDice/internal/actor"
	"WordDice/internal/app"
	"WordDice/internal/battle"
	"WordDice/internal/rules"
	"WordDice/internal/shared/config"
	"WordDice/internal/shared/logs"
	"WordDice/internal/shared/serverconfig"
	transportgrpc "WordDice/internal/shared/transport/grpc"
	"WordDice/internal/shared/utils"
	"WordDice/internal/storage"
	"WordDice/internal/storage/factory"
	"WordDice/internal/tournament"

	grpchandler "WordDice/internal/interfaces/handler/grpc"

	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	logLevel   string
	remote     string
	token      string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "sim",
		Short:         "WordDice 骰子对战模拟器",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logs.Init("sim", config.LogConfig{Level: o.logLevel})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logs.Sync()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "配置文件路径，默认向上查找 configs/conf.yml，找不到时使用内置默认值")
	pf.StringVar(&o.logLevel, "log-level", "warn", "日志级别")
	pf.StringVar(&o.remote, "remote", "", "gRPC 地址，设置后在服务端执行（例如 127.0.0.1:9090）")
	pf.StringVar(&o.token, "token", os.Getenv("WORDDICE_TOKEN"), "--remote 调用时携带的 JWT，默认读 WORDDICE_TOKEN")
	pf.DurationVar(&o.timeout, "timeout", 0, "单次命令超时，0 表示不限")

	root.AddCommand(
		newBattleCmd(o),
		newTournamentCmd(o),
		newRulesCmd(o),
		newTokenCmd(o),
	)
	return root
}

func (o *options) conf() (serverconfig.Config, error) {
	c, err := serverconfig.Read(o.configPath)
	if err == nil {
		return c, nil
	}
	var nf *config.NotFoundError
	if o.configPath == "" && errors.As(err, &nf) {
		serverconfig.Defaults(&c)
		return c, nil
	}
	return c, err
}

func (o *options) context(parent context.Context) (context.Context, context.CancelFunc) {
	if o.timeout > 0 {
		return context.WithTimeout(parent, o.timeout)
	}
	return context.WithCancel(parent)
}

func (o *options) rules(c serverconfig.Config) (*rules.Rules, error) {
	if c.Simulation.RulesFile == "" {
		return rules.Default()
	}
	return rules.Load(c.Simulation.RulesFile)
}

type execOptions struct {
	executor string
	workers  int
	save     bool
}

// service 在本地组装 SimulationService；返回的 closeFn 释放执行器与存储连接。
func (o *options) service(ctx context.Context, eo execOptions) (*app.SimulationService, func(), error) {
	c, err := o.conf()
	if err != nil {
		return nil, nil, err
	}
	r, err := o.rules(c)
	if err != nil {
		return nil, nil, err
	}
	engine := battle.NewEngine(r, c.Simulation.MaxRounds)

	closers := []func(){}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if eo.executor == "" {
		eo.executor = c.Simulation.Executor
	}
	if eo.workers == 0 {
		eo.workers = c.Simulation.Workers
	}
	var exec tournament.Executor
	switch eo.executor {
	case "actor":
		rt := actor.NewRuntime(engine, eo.workers, c.Simulation.Timeout)
		closers = append(closers, rt.Shutdown)
		exec = rt
	default:
		exec = tournament.NewLocalExecutor(engine, eo.workers)
	}

	var repo storage.ReportRepository
	if eo.save {
		rp, closeRepo, err := factory.Open(ctx, c)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, closeRepo)
		repo = rp
	}

	ids, err := utils.NewSnowflake(c.Storage.NodeID)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	svc := app.NewSimulationService(engine, exec, repo, ids, logs.L(), app.Limits{
		DefaultTrials: c.Simulation.DefaultTrials,
		MaxTrials:     c.Simulation.MaxTrials,
		MaxWords:      c.Simulation.MaxWords,
		MaxWordLen:    c.Simulation.MaxWordLen,
		Timeout:       c.Simulation.Timeout,
	})
	return svc, closeAll, nil
}

func (o *options) client() (*grpchandler.SimulatorClient, func(), error) {
	conn, err := transportgrpc.Dial(o.remote, transportgrpc.WithBearer(o.token))
	if err != nil {
		return nil, nil, err
	}
	return grpchandler.NewSimulatorClient(conn), func() { _ = conn.Close() }, nil
}
