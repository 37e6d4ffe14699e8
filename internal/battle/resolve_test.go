package battle

import (
	"encoding/json"
	"testing"

	"WordDice/internal/rules"
)

func TestCategorize(t *testing.T) {
	var faces []rules.Face
	for _, tok := range []string{"MV:2", "S:0.5", "S:0.5", "S:2", "M:2", "R:1", "HX:3", "NG:2", "MP:2", "RE:2", "RE:2"} {
		f, err := rules.ParseFace(tok)
		if err != nil {
			t.Fatalf("ParseFace(%q) err=%v", tok, err)
		}
		faces = append(faces, f)
	}

	c := Categorize(faces)
	if c.Damage != [3]int{1, 1, 1} {
		t.Fatalf("damage=%v", c.Damage)
	}
	if c.Shield != [3]int{2, 0, 1} {
		t.Fatalf("shield=%v", c.Shield)
	}
	if c.Negate != 2 || c.Multiply != 2 || c.Repair != 4 {
		t.Fatalf("budgets=%+v", c)
	}
	if c.DamageValue() != 6 || c.ShieldValue() != 3 {
		t.Fatalf("damage=%d shield=%d", c.DamageValue(), c.ShieldValue())
	}
}

func TestCounter_ShieldValue_截断半护盾(t *testing.T) {
	cases := []struct {
		half int
		want int
	}{{0, 0}, {1, 0}, {2, 1}, {3, 1}, {5, 2}}
	for _, c := range cases {
		got := Counter{Shield: [3]int{c.half, 0, 0}}.ShieldValue()
		if got != c.want {
			t.Fatalf("S0.5=%d shield=%d want %d", c.half, got, c.want)
		}
	}
}

func TestCounter_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Counter{Damage: [3]int{1, 0, 2}, Shield: [3]int{3, 0, 0}, Repair: 2})
	if err != nil {
		t.Fatalf("marshal err=%v", err)
	}
	var m map[string]int
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal err=%v", err)
	}
	if m["D1"] != 1 || m["D3"] != 2 || m["S0.5"] != 3 || m["RE"] != 2 || m["NG"] != 0 {
		t.Fatalf("json=%s", raw)
	}
}

func TestCounter_JSON往返(t *testing.T) {
	in := Counter{Damage: [3]int{1, 2, 3}, Shield: [3]int{4, 5, 6}, Negate: 7, Multiply: 2, Repair: 9}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal err=%v", err)
	}
	var out Counter
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal err=%v", err)
	}
	if out != in {
		t.Fatalf("往返后不一致: %+v want %+v", out, in)
	}

	// 嵌在回合记录里也要能还原
	rep := RoundReport{Round: 1, One: SideReport{Counter: in}}
	raw, _ = json.Marshal(rep)
	var back RoundReport
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal report err=%v", err)
	}
	if back.One.Counter != in {
		t.Fatalf("counter=%+v", back.One.Counter)
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		name       string
		own, enemy Counter
		wantDamage int
		check      func(t *testing.T, r Resolution)
	}{
		{
			name:       "护盾抵挡部分伤害",
			own:        Counter{Shield: [3]int{0, 1, 0}},
			enemy:      Counter{Damage: [3]int{0, 1, 0}},
			wantDamage: 1,
		},
		{
			name:       "抵消从最大档开始",
			own:        Counter{Negate: 1},
			enemy:      Counter{Damage: [3]int{1, 0, 1}},
			wantDamage: 1,
			check: func(t *testing.T, r Resolution) {
				if r.Enemy.Damage != [3]int{1, 0, 0} || r.Own.Negate != 0 {
					t.Fatalf("enemy=%v negate=%d", r.Enemy.Damage, r.Own.Negate)
				}
			},
		},
		{
			name:       "护盾已足够时抵消转向敌方护盾",
			own:        Counter{Shield: [3]int{0, 0, 1}, Negate: 2},
			enemy:      Counter{Damage: [3]int{2, 0, 0}, Shield: [3]int{0, 1, 0}},
			wantDamage: 0,
			check: func(t *testing.T, r Resolution) {
				if r.Enemy.Damage != [3]int{2, 0, 0} {
					t.Fatalf("伤害骰不应被抵消: %v", r.Enemy.Damage)
				}
				if r.Enemy.Shield != [3]int{0, 0, 0} || r.Own.Negate != 1 {
					t.Fatalf("enemy shield=%v negate=%d", r.Enemy.Shield, r.Own.Negate)
				}
			},
		},
		{
			name:       "劣势时复制护盾",
			own:        Counter{Shield: [3]int{0, 1, 0}, Multiply: 2},
			enemy:      Counter{Damage: [3]int{0, 0, 1}},
			wantDamage: 0,
			check: func(t *testing.T, r Resolution) {
				if r.Own.Shield != [3]int{0, 3, 0} || r.Own.Multiply != 0 {
					t.Fatalf("own shield=%v multiply=%d", r.Own.Shield, r.Own.Multiply)
				}
			},
		},
		{
			name:       "剩余复制用于己方伤害骰",
			own:        Counter{Shield: [3]int{0, 0, 1}, Damage: [3]int{0, 1, 0}, Multiply: 2},
			enemy:      Counter{Damage: [3]int{1, 0, 0}},
			wantDamage: 0,
			check: func(t *testing.T, r Resolution) {
				if r.Own.Shield != [3]int{0, 0, 1} {
					t.Fatalf("已占优不应复制护盾: %v", r.Own.Shield)
				}
				if r.Own.Damage != [3]int{0, 3, 0} {
					t.Fatalf("own damage=%v", r.Own.Damage)
				}
			},
		},
		{
			name:       "没有骰子可复制时预算保留",
			own:        Counter{Multiply: 2},
			enemy:      Counter{Damage: [3]int{0, 0, 1}},
			wantDamage: 3,
			check: func(t *testing.T, r Resolution) {
				if r.Own.Multiply != 2 {
					t.Fatalf("multiply=%d", r.Own.Multiply)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			own, enemy := c.own, c.enemy
			r := Resolve(own, enemy)
			if r.Damage != c.wantDamage {
				t.Fatalf("damage=%d want %d", r.Damage, c.wantDamage)
			}
			if own != c.own || enemy != c.enemy {
				t.Fatalf("Resolve 不应修改入参")
			}
			if c.check != nil {
				c.check(t, r)
			}
		})
	}
}

// grid 枚举一个较小的计数空间：每档 0..2 个骰子，抵消/复制预算 0..2。
func grid(fn func(own, enemy Counter)) {
	var tiers [][3]int
	for a := 0; a <= 2; a++ {
		for b := 0; b <= 2; b++ {
			for c := 0; c <= 2; c++ {
				tiers = append(tiers, [3]int{a, b, c})
			}
		}
	}
	for _, shield := range tiers {
		for _, dmg := range tiers {
			for ng := 0; ng <= 2; ng++ {
				for mp := 0; mp <= 2; mp++ {
					own := Counter{Shield: shield, Negate: ng, Multiply: mp}
					fn(own, Counter{Damage: dmg})
				}
			}
		}
	}
}

func TestResolve_伤害单调(t *testing.T) {
	grid(func(own, enemy Counter) {
		base := Resolve(own, enemy).Damage
		for tier := 0; tier < rules.DamageTiers; tier++ {
			more := enemy
			more.Damage[tier]++
			if got := Resolve(own, more).Damage; got < base {
				t.Fatalf("增加敌方 D%d 后伤害下降: own=%+v enemy=%+v %d -> %d", tier+1, own, enemy, base, got)
			}
		}
		for tier := 0; tier < rules.ShieldTiers; tier++ {
			more := own
			more.Shield[tier]++
			if got := Resolve(more, enemy).Damage; got > base {
				t.Fatalf("增加己方护盾档 %d 后伤害上升: own=%+v enemy=%+v %d -> %d", tier, own, enemy, base, got)
			}
		}
	})
}

func TestResolve_计数不会为负(t *testing.T) {
	grid(func(own, enemy Counter) {
		enemy.Shield = own.Shield
		own.Negate += 3
		r := Resolve(own, enemy)
		for _, n := range append(r.Enemy.Damage[:], r.Enemy.Shield[:]...) {
			if n < 0 {
				t.Fatalf("出现负计数: own=%+v enemy=%+v got=%+v", own, enemy, r.Enemy)
			}
		}
		if r.Own.Negate < 0 || r.Own.Multiply < 0 || r.Damage < 0 {
			t.Fatalf("预算或伤害为负: %+v", r)
		}
	})
}
