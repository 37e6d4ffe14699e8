package battle

import (
	"strings"
	"unicode/utf8"

	"WordDice/internal/rules"
)

// Die 是一颗骰子：由单词中的一个字母生成，ID 为字母在单词中的下标。
// 同一个单词里的两个 A 是两颗不同的骰子。
type Die struct {
	ID     int
	Letter rune
	Group  rules.Group
}

func (d Die) String() string {
	return string(d.Letter)
}

// NormalizeWord 去掉首尾空白并统一转成大写。
func NormalizeWord(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

// BuildDice 按规则表把单词拆成骰子；空单词或未知字母直接拒绝，不做默认值兜底。
func BuildDice(r *rules.Rules, word string) ([]Die, error) {
	if word == "" {
		return nil, ErrInvalidWord.WithData("word", word).WithData("reason", "empty word")
	}
	dice := make([]Die, 0, utf8.RuneCountInString(word))
	pos := 0
	for _, letter := range word {
		g, ok := r.GroupOf(letter)
		if !ok {
			return nil, ErrInvalidWord.WithDataMap(map[string]any{
				"word":     word,
				"letter":   string(letter),
				"position": pos,
			})
		}
		dice = append(dice, Die{ID: pos, Letter: letter, Group: g})
		pos++
	}
	return dice, nil
}

func letters(dice []Die) []string {
	if len(dice) == 0 {
		return nil
	}
	out := make([]string, 0, len(dice))
	for _, d := range dice {
		out = append(out, d.String())
	}
	return out
}
