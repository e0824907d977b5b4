package bench

// xorshift32 is a small deterministic PRNG so pattern sets are reproducible
// across runs and platforms.
type xorshift32 struct {
	state uint32
}

func newXorshift32(seed uint32) *xorshift32 {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	return &xorshift32{state: seed}
}

func (x *xorshift32) next() uint32 {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	x.state = s
	return s
}

// intn returns a value in [0, n). n must be positive.
func (x *xorshift32) intn(n int) int {
	return int(x.next() % uint32(n))
}
