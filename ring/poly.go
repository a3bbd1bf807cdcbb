package ring

// NewPoly allocates a new polynomial of N coefficients.
func NewPoly[T Torus](N int) []T {
	return make([]T, N)
}

// Zero sets all the coefficients of p to zero.
func Zero[T Torus](p []T) {
	for i := range p {
		p[i] = 0
	}
}

// Add evaluates p3 = p1 + p2.
func Add[T Torus](p1, p2, p3 []T) {
	p2, p3 = p2[:len(p1)], p3[:len(p1)]
	for i := range p1 {
		p3[i] = p1[i] + p2[i]
	}
}

// Sub evaluates p3 = p1 - p2.
func Sub[T Torus](p1, p2, p3 []T) {
	p2, p3 = p2[:len(p1)], p3[:len(p1)]
	for i := range p1 {
		p3[i] = p1[i] - p2[i]
	}
}

// Neg evaluates p2 = -p1.
func Neg[T Torus](p1, p2 []T) {
	p2 = p2[:len(p1)]
	for i := range p1 {
		p2[i] = -p1[i]
	}
}

// AddAssign evaluates p1 += p2.
func AddAssign[T Torus](p1, p2 []T) {
	p2 = p2[:len(p1)]
	for i := range p1 {
		p1[i] += p2[i]
	}
}

// SubAssign evaluates p1 -= p2.
func SubAssign[T Torus](p1, p2 []T) {
	p2 = p2[:len(p1)]
	for i := range p1 {
		p1[i] -= p2[i]
	}
}

// MulScalarAssign evaluates p *= c.
func MulScalarAssign[T Torus](p []T, c T) {
	for i := range p {
		p[i] *= c
	}
}

// MulAddAssign evaluates acc += p * s mod X^N+1 with the schoolbook algorithm.
// The product is exact. Zero coefficients of s are skipped, which makes it
// fast when s is a binary secret.
func MulAddAssign[T Torus](acc, p, s []T) {
	mulAssign(acc, p, s, false)
}

// MulSubAssign evaluates acc -= p * s mod X^N+1 with the schoolbook algorithm.
func MulSubAssign[T Torus](acc, p, s []T) {
	mulAssign(acc, p, s, true)
}

func mulAssign[T Torus](acc, p, s []T, sub bool) {

	N := len(acc)
	p, s = p[:N], s[:N]

	for j, sj := range s {

		if sj == 0 {
			continue
		}

		if sub {
			sj = -sj
		}

		// acc += p * sj * X^j
		for i := 0; i < N-j; i++ {
			acc[i+j] += p[i] * sj
		}

		for i := N - j; i < N; i++ {
			acc[i+j-N] -= p[i] * sj
		}
	}
}
