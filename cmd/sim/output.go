package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"WordDice/internal/app"
	"WordDice/internal/app/model"
	"WordDice/internal/battle"
	"WordDice/internal/rules"

	"google.golang.org/grpc/status"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe 把业务错误和远端 gRPC 错误整理成一行可读信息。
func describe(err error) error {
	if msg := app.GetErrorMessage(err); msg != "" && app.IsBizRejectedError(err) {
		data := app.GetErrorData(err)
		if len(data) == 0 {
			return errors.New(msg)
		}
		parts := make([]string, 0, len(data))
		for _, k := range slices.Sorted(maps.Keys(data)) {
			parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
		}
		return fmt.Errorf("%s (%s)", msg, strings.Join(parts, " "))
	}
	if st, ok := status.FromError(err); ok {
		return fmt.Errorf("remote %s: %s", st.Code(), st.Message())
	}
	return err
}

func printBattle(w io.Writer, resp *model.BattleResp) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range resp.Trace {
		fmt.Fprintf(tw, "R%d\t%s\t%s\n", r.Round, sideLine(r.One), sideLine(r.Two))
	}
	if len(resp.Trace) > 0 {
		fmt.Fprintln(tw)
	}
	fmt.Fprintf(tw, "对战\t%s vs %s\n", resp.Word1, resp.Word2)
	fmt.Fprintf(tw, "胜者\t%s\n", resp.Winner)
	fmt.Fprintf(tw, "结束原因\t%s\n", resp.Reason)
	fmt.Fprintf(tw, "回合数\t%d\n", resp.Rounds)
	fmt.Fprintf(tw, "受损骰子\t%d / %d\n", resp.Lost1, resp.Lost2)
	fmt.Fprintf(tw, "种子\t%d\n", resp.Seed)
	return tw.Flush()
}

func sideLine(s battle.SideReport) string {
	line := fmt.Sprintf("[%s] dmg=%d pool=%d damaged=%d", strings.Join(s.Faces, " "), s.Damage, s.Pool, s.Damaged)
	if len(s.Removed) > 0 {
		line += " -" + strings.Join(s.Removed, ",")
	}
	if len(s.Repaired) > 0 {
		line += " +" + strings.Join(s.Repaired, ",")
	}
	return line
}

func printReport(w io.Writer, rep *model.TournamentResp, saved bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	if saved {
		fmt.Fprintf(w, "报告 %d 已保存\n", rep.ID)
	}
	fmt.Fprintf(w, "单词 %d 个，每对 %d 局，共 %d 局，平局 %d，种子 %d\n\n",
		len(rep.Words), rep.Trials, rep.Battles, rep.Draws, rep.Seed)

	fmt.Fprintln(tw, "分组\t名称\t出场\t胜场\t胜率\t平均回合\t平均受损\t")
	for _, g := range rep.Groups {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%.2f%%\t%.2f\t%.2f\t\n",
			g.Group, g.Name, g.Appearances, g.Wins, g.WinRate*100, g.AvgRounds, g.AvgDamageTaken)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	m := rep.Matrix
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "胜场\t%s\t\n", strings.Join(m.Words, "\t"))
	for i, word := range m.Words {
		cells := make([]string, len(m.Words))
		for j := range m.Words {
			if i == j {
				cells[j] = "-"
				continue
			}
			cells[j] = strconv.Itoa(m.Wins[i][j])
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", word, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func printRules(w io.Writer, v rules.View) error {
	fmt.Fprintln(w, v.Title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "分组\t名称\t颜色\t字母\t骰面")
	for _, g := range v.Groups {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", g.Group, g.Name, g.Color, lettersOf(v, g.Group), strings.Join(g.Faces, " "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "移除优先级 %v\n", v.RemovalPriority)
	fmt.Fprintf(w, "修复优先级 %v\n", v.RepairPriority)
	return nil
}

func lettersOf(v rules.View, g int) string {
	var out []string
	for l, grp := range v.Letters {
		if grp == g {
			out = append(out, l)
		}
	}
	slices.Sort(out)
	return strings.Join(out, "")
}
