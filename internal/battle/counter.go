package battle

import (
	"encoding/json"

	"WordDice/internal/rules"
)

// Counter 是一方本回合的骰面统计，每回合重新生成。
//
//	Damage[0..2] -> D1 D2 D3
//	Shield[0..2] -> S0.5 S1 S2
type Counter struct {
	Damage   [rules.DamageTiers]int
	Shield   [rules.ShieldTiers]int
	Negate   int
	Multiply int
	Repair   int
}

var (
	damageLabels = [rules.DamageTiers]string{"D1", "D2", "D3"}
	shieldLabels = [rules.ShieldTiers]string{"S0.5", "S1", "S2"}
)

// Roll 从骰子所属分组的 6 个骰面中均匀取一面。
func Roll(r *rules.Rules, d Die, rng Roller) rules.Face {
	faces := r.Faces(d.Group)
	return faces[rng.IntN(len(faces))]
}

// RollAll 按池中顺序依次掷骰。
func RollAll(r *rules.Rules, pool []Die, rng Roller) []rules.Face {
	out := make([]rules.Face, 0, len(pool))
	for _, d := range pool {
		out = append(out, Roll(r, d, rng))
	}
	return out
}

// Categorize 把本回合掷出的骰面归档成 Counter；移动骰面不参与战斗。
// 骰面已在规则加载时校验过档位，这里不会遇到越界数值。
func Categorize(faces []rules.Face) Counter {
	var c Counter
	for _, f := range faces {
		switch {
		case f.Kind.IsDamage():
			if t, ok := rules.DamageTier(f.Magnitude); ok {
				c.Damage[t]++
			}
		case f.Kind == rules.KindShield:
			if t, ok := rules.ShieldTier(f.Magnitude); ok {
				c.Shield[t]++
			}
		case f.Kind == rules.KindNegate:
			c.Negate += int(f.Magnitude)
		case f.Kind == rules.KindMultiply:
			c.Multiply += int(f.Magnitude)
		case f.Kind == rules.KindRepair:
			c.Repair += int(f.Magnitude)
		}
	}
	return c
}

// DamageValue = 3*D3 + 2*D2 + D1
func (c Counter) DamageValue() int {
	total := 0
	for t, n := range c.Damage {
		total += (t + 1) * n
	}
	return total
}

// ShieldValue = trunc(2*S2 + S1 + 0.5*S0.5)
func (c Counter) ShieldValue() int {
	return 2*c.Shield[2] + c.Shield[1] + c.Shield[0]/2
}

// MarshalJSON 输出成 {"D1":1,"S0.5":2,"NG":1,...}，便于和规则表对照阅读。
func (c Counter) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, rules.DamageTiers+rules.ShieldTiers+3)
	for t, n := range c.Damage {
		m[damageLabels[t]] = n
	}
	for t, n := range c.Shield {
		m[shieldLabels[t]] = n
	}
	m["NG"] = c.Negate
	m["MP"] = c.Multiply
	m["RE"] = c.Repair
	return json.Marshal(m)
}

// UnmarshalJSON 是 MarshalJSON 的逆过程；远端 trace 经 JSON 回传时靠它还原计数。
func (c *Counter) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*c = Counter{}
	for t, label := range damageLabels {
		c.Damage[t] = m[label]
	}
	for t, label := range shieldLabels {
		c.Shield[t] = m[label]
	}
	c.Negate = m["NG"]
	c.Multiply = m["MP"]
	c.Repair = m["RE"]
	return nil
}
