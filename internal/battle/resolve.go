package battle

import "WordDice/internal/rules"

// Resolution 是一次伤害结算的结果：结算后的双方计数（副本）和己方承受的净伤害。
// Own.Negate / Own.Multiply 为结算后剩余的预算。
type Resolution struct {
	Own    Counter `json:"own"`
	Enemy  Counter `json:"enemy"`
	Damage int     `json:"damage"`
}

// Resolve 计算 own 一方本回合承受的伤害。入参按值传递，调用方的计数不会被修改。
//
// 顺序固定：
//  1. 抵消：NG 从 D3 到 D1 逐个抵消敌方伤害骰，伤害已不超过己方护盾时停止该档；
//     剩余 NG 再从 S2 到 S0.5 抵消敌方护盾。
//  2. 复制：MP 仍处于劣势（护盾 < 伤害）时从 S2 到 S0.5 复制己方护盾；
//     剩余 MP 无条件从 D3 到 D1 复制己方已有的伤害骰。
//  3. 净伤害 = max(0, 敌方伤害 - 己方护盾)。
func Resolve(own, enemy Counter) Resolution {
	negate := own.Negate
	for t := rules.DamageTiers - 1; t >= 0; t-- {
		for negate > 0 && enemy.Damage[t] > 0 {
			if enemy.DamageValue() <= own.ShieldValue() {
				break
			}
			enemy.Damage[t]--
			negate--
		}
	}
	for t := rules.ShieldTiers - 1; t >= 0; t-- {
		for negate > 0 && enemy.Shield[t] > 0 {
			enemy.Shield[t]--
			negate--
		}
	}

	multiply := own.Multiply
	for t := rules.ShieldTiers - 1; t >= 0; t-- {
		for multiply > 0 && own.Shield[t] > 0 {
			if own.ShieldValue() >= enemy.DamageValue() {
				break
			}
			own.Shield[t]++
			multiply--
		}
	}
	for t := rules.DamageTiers - 1; t >= 0; t-- {
		for multiply > 0 && own.Damage[t] > 0 {
			own.Damage[t]++
			multiply--
		}
	}
	own.Negate = negate
	own.Multiply = multiply

	return Resolution{
		Own:    own,
		Enemy:  enemy,
		Damage: max(0, enemy.DamageValue()-own.ShieldValue()),
	}
}
