package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind 是骰面类型。
type Kind uint8

const (
	KindMovement Kind = iota + 1 // MV：移动，战斗结算中不生效
	KindShield                   // S：护盾
	KindMelee                    // M：近战
	KindRanged                   // R：远程
	KindHybrid                   // HX：混合伤害
	KindNegate                   // NG：抵消敌方骰子
	KindMultiply                 // MP：复制己方骰子
	KindRepair                   // RE：修复受损骰子
)

var kindTokens = map[Kind]string{
	KindMovement: "MV",
	KindShield:   "S",
	KindMelee:    "M",
	KindRanged:   "R",
	KindHybrid:   "HX",
	KindNegate:   "NG",
	KindMultiply: "MP",
	KindRepair:   "RE",
}

func (k Kind) String() string {
	if s, ok := kindTokens[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsDamage 近战/远程/混合都按伤害档位计数。
func (k Kind) IsDamage() bool {
	return k == KindMelee || k == KindRanged || k == KindHybrid
}

func parseKind(token string) (Kind, bool) {
	for k, s := range kindTokens {
		if s == token {
			return k, true
		}
	}
	return 0, false
}

// 伤害档位 D1/D2/D3 与护盾档位 S0.5/S1/S2 的数量。
const (
	DamageTiers = 3
	ShieldTiers = 3
)

// Face 是一个骰面：(类型, 数值)。
type Face struct {
	Kind      Kind
	Magnitude float64
}

// ParseFace 解析 "HX:2" / "S:0.5" 形式的骰面。
func ParseFace(token string) (Face, error) {
	kindPart, valuePart, ok := strings.Cut(strings.TrimSpace(token), ":")
	if !ok {
		return Face{}, fmt.Errorf("invalid face %q: want KIND:VALUE", token)
	}
	kind, ok := parseKind(strings.ToUpper(kindPart))
	if !ok {
		return Face{}, fmt.Errorf("invalid face %q: unknown kind %q", token, kindPart)
	}
	v, err := strconv.ParseFloat(valuePart, 64)
	if err != nil {
		return Face{}, fmt.Errorf("invalid face %q: %w", token, err)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return Face{}, fmt.Errorf("invalid face %q: magnitude must be non-negative", token)
	}
	return Face{Kind: kind, Magnitude: v}, nil
}

func (f Face) String() string {
	return f.Kind.String() + ":" + strconv.FormatFloat(f.Magnitude, 'f', -1, 64)
}

// MarshalText 让骰面在 JSON 中保持 "KIND:VALUE" 的原始写法。
func (f Face) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Face) UnmarshalText(text []byte) error {
	parsed, err := ParseFace(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// DamageTier 返回伤害骰面所在档位下标（D1=0, D2=1, D3=2）。
// 数值按整数截断，与计数规则一致。
func DamageTier(magnitude float64) (int, bool) {
	n := int(magnitude)
	if n < 1 || n > DamageTiers {
		return 0, false
	}
	return n - 1, true
}

// ShieldTier 返回护盾骰面所在档位下标（S0.5=0, S1=1, S2=2）。
func ShieldTier(magnitude float64) (int, bool) {
	switch magnitude {
	case 0.5:
		return 0, true
	case 1:
		return 1, true
	case 2:
		return 2, true
	default:
		return 0, false
	}
}
