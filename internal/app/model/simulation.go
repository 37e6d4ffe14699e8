package model

import (
	"WordDice/internal/battle"
	"WordDice/internal/rules"
	"WordDice/internal/tournament"
)

type BattleReq struct {
	Word1 string  `json:"word1" mapstructure:"word1"`
	Word2 string  `json:"word2" mapstructure:"word2"`
	Seed  *uint64 `json:"seed,omitempty" mapstructure:"seed"`
	// Trace 为 true 时返回（或推送）每回合记录
	Trace bool `json:"trace" mapstructure:"trace"`
}

type BattleResp struct {
	battle.Outcome
	Seed  uint64               `json:"seed,string"`
	Trace []battle.RoundReport `json:"trace,omitempty"`
}

type TournamentReq struct {
	Words  []string `json:"words" mapstructure:"words"`
	Trials int      `json:"trials" mapstructure:"trials"`
	Seed   *uint64  `json:"seed,omitempty" mapstructure:"seed"`
	// DryRun 为 true 时不保存报告
	DryRun bool `json:"dry_run" mapstructure:"dry_run"`
}

type TournamentResp = tournament.Report

type ReportListResp struct {
	Reports []tournament.Summary `json:"reports"`
}

type RulesResp = rules.View
