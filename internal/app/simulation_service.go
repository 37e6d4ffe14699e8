package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"WordDice/internal/actor"
	"WordDice/internal/app/model"
	"WordDice/internal/battle"
	"WordDice/internal/shared/transport"
	"WordDice/internal/tournament"
	"WordDice/modules/kit/errx"
)

// Limits 是可热更新的请求上限。
type Limits struct {
	DefaultTrials int
	MaxTrials     int
	MaxWords      int
	MaxWordLen    int
	Timeout       time.Duration
}

func (l Limits) normalize() Limits {
	if l.DefaultTrials <= 0 {
		l.DefaultTrials = tournament.DefaultTrials
	}
	if l.MaxTrials <= 0 {
		l.MaxTrials = tournament.MaxTrials
	}
	if l.MaxWords <= 0 {
		l.MaxWords = 32
	}
	if l.MaxWordLen <= 0 {
		l.MaxWordLen = 32
	}
	return l
}

type SimulationService struct {
	engine *battle.Engine
	exec   tournament.Executor
	repo   ReportRepository
	ids    IDGenerator
	seeds  SeedSource
	log    Logger
	now    func() time.Time
	limits atomic.Pointer[Limits]
}

func NewSimulationService(engine *battle.Engine, exec tournament.Executor, repo ReportRepository, ids IDGenerator, log Logger, limits Limits) *SimulationService {
	s := &SimulationService{
		engine: engine,
		exec:   exec,
		repo:   repo,
		ids:    ids,
		seeds:  battle.RandomSeed,
		log:    log,
		now:    time.Now,
	}
	s.SetLimits(limits)
	return s
}

// SetLimits 配置热更新时调用。
func (s *SimulationService) SetLimits(l Limits) {
	l = l.normalize()
	s.limits.Store(&l)
}

func (s *SimulationService) Limits() Limits {
	return *s.limits.Load()
}

func (s *SimulationService) Rules() model.RulesResp {
	return s.engine.Rules().View()
}

// Battle 运行单场对战。observe 非空时每回合同步回调（WS 推送用）；
// 为空且 req.Trace 为 true 时，回合记录放进响应。
func (s *SimulationService) Battle(ctx context.Context, req model.BattleReq, observe battle.Observer) (*model.BattleResp, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrCanceled.WithCause(err)
	}
	w1, w2 := battle.NormalizeWord(req.Word1), battle.NormalizeWord(req.Word2)
	maxLen := s.Limits().MaxWordLen
	for _, w := range []string{w1, w2} {
		if err := checkWordLen(w, maxLen); err != nil {
			return nil, err
		}
	}
	seed := s.seedOf(req.Seed)

	resp := &model.BattleResp{Seed: seed}
	var obs battle.Observer
	switch {
	case observe != nil && req.Trace:
		obs = observe
	case req.Trace:
		obs = func(r battle.RoundReport) { resp.Trace = append(resp.Trace, r) }
	}

	out, err := s.engine.Simulate(w1, w2, battle.NewRNG(seed), obs)
	if err != nil {
		return nil, err
	}
	resp.Outcome = out
	return resp, nil
}

// Tournament 运行锦标赛并（非 dry run 时）保存报告。
func (s *SimulationService) Tournament(ctx context.Context, req model.TournamentReq) (*model.TournamentResp, error) {
	limits := s.Limits()
	job, err := s.buildJob(req, limits)
	if err != nil {
		return nil, err
	}

	if limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limits.Timeout)
		defer cancel()
	}

	start := time.Now()
	rep, err := tournament.Run(ctx, s.exec, s.engine.Rules(), job)
	if err != nil {
		return nil, s.mapExecError(err, job)
	}
	rep.ID = s.ids.NextID()
	rep.CreatedAt = s.now()

	if !req.DryRun && s.repo != nil {
		if err := s.repo.Save(ctx, rep); err != nil {
			return nil, ErrUnavailable.WithReason(ReasonReportSaveFail).WithData("id", rep.ID).WithCause(err)
		}
	}

	if s.log != nil {
		s.log.WithContext(ctx).Info("tournament finished",
			zap.Int64("id", rep.ID),
			zap.Int("words", len(job.Words)),
			zap.Int("battles", rep.Battles),
			zap.Int("draws", rep.Draws),
			zap.Uint64("seed", job.Seed),
			zap.Bool("saved", !req.DryRun && s.repo != nil),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return rep, nil
}

func (s *SimulationService) Report(ctx context.Context, id int64) (*model.TournamentResp, error) {
	if id <= 0 {
		return nil, ErrInvalidParam.WithData("id", id)
	}
	if s.repo == nil {
		return nil, ErrReportNotFound.WithData("id", id)
	}
	rep, err := s.repo.Get(ctx, id)
	if err != nil {
		if errx.IsBiz(err) {
			return nil, err
		}
		return nil, ErrUnavailable.WithReason(ReasonReportRepoFailed).WithCause(err)
	}
	return rep, nil
}

func (s *SimulationService) Reports(ctx context.Context, limit int) (*model.ReportListResp, error) {
	if s.repo == nil {
		return &model.ReportListResp{Reports: []tournament.Summary{}}, nil
	}
	list, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, ErrUnavailable.WithReason(ReasonReportRepoFailed).WithCause(err)
	}
	if list == nil {
		list = []tournament.Summary{}
	}
	return &model.ReportListResp{Reports: list}, nil
}

func (s *SimulationService) seedOf(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return s.seeds()
}

// buildJob 在边界统一做校验：单词转大写、去重检查、字母合法、对局次数范围。
func (s *SimulationService) buildJob(req model.TournamentReq, limits Limits) (tournament.Job, error) {
	words := req.Words
	if len(words) == 0 {
		words = tournament.DefaultWords
	}
	if len(words) > limits.MaxWords {
		return tournament.Job{}, ErrInvalidParam.WithReason(ReasonTooManyWords).WithData("words", len(words)).WithData("max", limits.MaxWords)
	}

	seen := make(map[string]struct{}, len(words))
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		nw := battle.NormalizeWord(w)
		if err := checkWordLen(nw, limits.MaxWordLen); err != nil {
			return tournament.Job{}, err
		}
		if _, err := battle.BuildDice(s.engine.Rules(), nw); err != nil {
			return tournament.Job{}, err
		}
		if _, dup := seen[nw]; dup {
			return tournament.Job{}, ErrInvalidParam.WithReason(ReasonDuplicateWord).WithData("word", nw)
		}
		seen[nw] = struct{}{}
		normalized = append(normalized, nw)
	}
	if len(normalized) < 2 {
		return tournament.Job{}, ErrInvalidParam.WithReason(ReasonTooFewWords).WithData("words", len(normalized))
	}

	trials := req.Trials
	if trials == 0 {
		trials = limits.DefaultTrials
	}
	if trials < 1 || trials > limits.MaxTrials {
		return tournament.Job{}, ErrInvalidParam.WithReason(ReasonTrialsOutRange).WithData("trials", trials).WithData("max", limits.MaxTrials)
	}

	return tournament.Job{Words: normalized, Trials: trials, Seed: s.seedOf(req.Seed)}, nil
}

// checkWordLen 在建骰子之前挡住超长单词，单词越长每回合的骰子越多。
func checkWordLen(w string, limit int) error {
	if len(w) > limit {
		return ErrInvalidParam.WithReason(ReasonWordTooLong).WithData("length", len(w)).WithData("max", limit)
	}
	return nil
}

func (s *SimulationService) mapExecError(err error, job tournament.Job) error {
	switch {
	case errx.IsBiz(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout.WithData("seed", job.Seed).WithCause(err)
	case errors.Is(err, context.Canceled):
		return ErrCanceled.WithCause(err)
	case actor.CodeFromError(err) == transport.UpstreamTimeout:
		return ErrTimeout.WithReason(ReasonExecutorFailed).WithCause(err)
	default:
		return ErrInternalServer.WithReason(ReasonExecutorFailed).WithData("seed", job.Seed).WithCause(err)
	}
}
