package battle

import (
	"slices"

	"WordDice/internal/rules"
)

// Remove 按移除优先级（元音、远程组先掉）稳定排序后，从队首移除 damage 颗骰子。
// 返回剩余的池子和被移除的骰子；入参切片不会被修改。
func Remove(r *rules.Rules, pool []Die, damage int) (remaining, removed []Die) {
	sorted := slices.Clone(pool)
	slices.SortStableFunc(sorted, func(a, b Die) int {
		return r.RemovalRank(a.Group) - r.RemovalRank(b.Group)
	})
	n := min(max(damage, 0), len(sorted))
	return slices.Clone(sorted[n:]), slices.Clone(sorted[:n])
}

// Repair 按修复优先级（精英、稀有组先修）稳定排序后，取出至多 amount 颗骰子放回池中。
// 修复数量不会超过受损集合的大小。
func Repair(r *rules.Rules, damaged []Die, amount int) (repaired, remaining []Die) {
	sorted := slices.Clone(damaged)
	slices.SortStableFunc(sorted, func(a, b Die) int {
		return r.RepairRank(a.Group) - r.RepairRank(b.Group)
	})
	n := min(max(amount, 0), len(sorted))
	return slices.Clone(sorted[:n]), slices.Clone(sorted[n:])
}
