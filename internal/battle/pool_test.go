package battle

import (
	"errors"
	"strings"
	"testing"

	"WordDice/internal/rules"
)

func mustDice(t *testing.T, word string) []Die {
	t.Helper()
	dice, err := BuildDice(rules.MustDefault(), word)
	if err != nil {
		t.Fatalf("BuildDice(%q) err=%v", word, err)
	}
	return dice
}

func word(dice []Die) string {
	var b strings.Builder
	for _, d := range dice {
		b.WriteRune(d.Letter)
	}
	return b.String()
}

func TestBuildDice(t *testing.T) {
	dice := mustDice(t, "AAQ")
	if len(dice) != 3 || dice[0].ID != 0 || dice[1].ID != 1 || dice[2].Group != 7 {
		t.Fatalf("dice=%+v", dice)
	}

	_, err := BuildDice(rules.MustDefault(), "AB1")
	if err == nil {
		t.Fatalf("期望非法字母报错")
	}
	if !errors.Is(err, ErrInvalidWord) {
		t.Fatalf("err=%v", err)
	}
	if _, err := BuildDice(rules.MustDefault(), ""); err == nil {
		t.Fatalf("期望空单词报错")
	}
	if NormalizeWord(" king ") != "KING" {
		t.Fatalf("NormalizeWord 未转大写")
	}
}

func TestRemove_按移除优先级(t *testing.T) {
	r := rules.MustDefault()
	pool := mustDice(t, "QKFBLYA")

	remaining, removed := Remove(r, pool, 2)
	if word(removed) != "AY" || word(remaining) != "LBFKQ" {
		t.Fatalf("removed=%s remaining=%s", word(removed), word(remaining))
	}
	if word(pool) != "QKFBLYA" {
		t.Fatalf("入参池子被修改: %s", word(pool))
	}

	remaining, removed = Remove(r, pool, 100)
	if len(remaining) != 0 || len(removed) != len(pool) {
		t.Fatalf("伤害超出池子大小时应全部移除")
	}

	remaining, removed = Remove(r, pool, -1)
	if len(removed) != 0 || len(remaining) != len(pool) {
		t.Fatalf("负伤害不应移除骰子")
	}
}

func TestRemove_同字母按身份区分(t *testing.T) {
	pool := mustDice(t, "AA")
	remaining, removed := Remove(rules.MustDefault(), pool, 1)
	if len(removed) != 1 || removed[0].ID != 0 {
		t.Fatalf("稳定排序应先移除第一个 A: %+v", removed)
	}
	if len(remaining) != 1 || remaining[0].ID != 1 {
		t.Fatalf("另一个 A 应留在池中: %+v", remaining)
	}
}

func TestRepair_按修复优先级且不超过受损数量(t *testing.T) {
	r := rules.MustDefault()
	damaged := mustDice(t, "AQKA")

	repaired, remaining := Repair(r, damaged, 2)
	if word(repaired) != "QK" || word(remaining) != "AA" {
		t.Fatalf("repaired=%s remaining=%s", word(repaired), word(remaining))
	}

	repaired, remaining = Repair(r, damaged, 10)
	if len(repaired) != len(damaged) || len(remaining) != 0 {
		t.Fatalf("修复数量超过受损集合: %d", len(repaired))
	}

	repaired, _ = Repair(r, nil, 3)
	if len(repaired) != 0 {
		t.Fatalf("空受损集合不应修复出骰子")
	}
}
