package main

import (
	"fmt"
	"os"
	"time"

	"WordDice/internal/shared/security"

	"github.com/spf13/cobra"
)

func newTokenCmd(o *options) *cobra.Command {
	var (
		client string
		ttl    time.Duration
		scopes []string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "签发访问锦标赛接口用的 JWT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("JWT_SECRET") == "" {
				c, err := o.conf()
				if err != nil {
					return err
				}
				if c.Security.JWTSecret != "" {
					_ = os.Setenv("JWT_SECRET", c.Security.JWTSecret)
				}
			}
			tok, err := security.Award(client, ttl, scopes...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&client, "client", "sim-cli", "写入 token 的客户端标识")
	f.DurationVar(&ttl, "ttl", security.DefaultTTL, "有效期")
	f.StringSliceVar(&scopes, "scope", nil, "授权范围（tournament:run / reports:read），为空表示全部")
	return cmd
}
