package battle

import "math/rand/v2"

// Roller 是骰子使用的随机源，*rand.Rand 天然满足。
type Roller interface {
	IntN(n int) int
}

// NewRNG 用固定种子创建可复现的随机源。
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SeedFor 由批次种子和对局序号派生出对局自己的种子（splitmix64），
// 保证并发执行时每局结果与调度顺序无关。
func SeedFor(base uint64, index int) uint64 {
	z := base + uint64(index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// RandomSeed 调用方未指定种子时使用。
func RandomSeed() uint64 {
	return rand.Uint64()
}
