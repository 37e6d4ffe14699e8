package main

import (
	"github.com/spf13/cobra"
)

func newRulesCmd(o *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "打印当前规则表",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.conf()
			if err != nil {
				return err
			}
			r, err := o.rules(c)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), r.View())
			}
			return printRules(cmd.OutOrStdout(), r.View())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "以 JSON 输出")
	return cmd
}
