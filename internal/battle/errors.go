package battle

import "WordDice/modules/kit/errx"

type Code = errx.Code

const (
	CodeInvalidWord Code = "BATTLE_INVALID_WORD"
)

// ErrInvalidWord 在边界层拒绝空单词或规则表之外的字母，data 中带 word/letter/position。
var ErrInvalidWord = errx.NewBiz(CodeInvalidWord, "单词包含无法识别的字母")
