package main

import (
	"WordDice/internal/app/model"

	"github.com/spf13/cobra"
)

func newBattleCmd(o *options) *cobra.Command {
	var (
		seed   uint64
		trace  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "battle WORD1 WORD2",
		Short: "模拟两个单词之间的一场对战",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.BattleReq{Word1: args[0], Word2: args[1], Trace: trace}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			ctx, cancel := o.context(cmd.Context())
			defer cancel()

			var (
				resp *model.BattleResp
				err  error
			)
			if o.remote != "" {
				cli, closeFn, derr := o.client()
				if derr != nil {
					return derr
				}
				defer closeFn()
				resp, err = cli.Battle(ctx, req)
			} else {
				svc, closeFn, serr := o.service(ctx, execOptions{})
				if serr != nil {
					return serr
				}
				defer closeFn()
				resp, err = svc.Battle(ctx, req, nil)
			}
			if err != nil {
				return describe(err)
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			return printBattle(cmd.OutOrStdout(), resp)
		},
	}
	f := cmd.Flags()
	f.Uint64Var(&seed, "seed", 0, "随机种子，不指定时随机生成并在结果中回显")
	f.BoolVar(&trace, "trace", false, "输出每回合记录")
	f.BoolVar(&asJSON, "json", false, "以 JSON 输出")
	return cmd
}
