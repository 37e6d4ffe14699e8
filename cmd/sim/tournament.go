package main

import (
	"WordDice/internal/app/model"

	"github.com/spf13/cobra"
)

func newTournamentCmd(o *options) *cobra.Command {
	var (
		words    []string
		trials   int
		seed     uint64
		workers  int
		executor string
		save     bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "单词两两对战多次，输出分组统计与对阵矩阵",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.TournamentReq{Words: words, Trials: trials, DryRun: !save}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			ctx, cancel := o.context(cmd.Context())
			defer cancel()

			var (
				rep *model.TournamentResp
				err error
			)
			if o.remote != "" {
				cli, closeFn, derr := o.client()
				if derr != nil {
					return derr
				}
				defer closeFn()
				rep, err = cli.Tournament(ctx, req)
			} else {
				svc, closeFn, serr := o.service(ctx, execOptions{executor: executor, workers: workers, save: save})
				if serr != nil {
					return serr
				}
				defer closeFn()
				rep, err = svc.Tournament(ctx, req)
			}
			if err != nil {
				return describe(err)
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), rep)
			}
			return printReport(cmd.OutOrStdout(), rep, save)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&words, "words", nil, "参赛单词，逗号分隔；为空时使用内置单词表")
	f.IntVar(&trials, "trials", 0, "每个有序对阵的对局次数，0 取配置默认值")
	f.Uint64Var(&seed, "seed", 0, "主种子，不指定时随机生成")
	f.IntVar(&workers, "workers", 0, "本地执行的并发数，0 取配置值")
	f.StringVar(&executor, "executor", "", "本地执行器 local / actor，为空取配置值")
	f.BoolVar(&save, "save", false, "保存报告到配置的存储")
	f.BoolVar(&asJSON, "json", false, "以 JSON 输出")
	return cmd
}
