package multipole

// Legendre evaluates the degree-n Legendre polynomial Pₙ(x) with Bonnet's
// recurrence (n+1)Pₙ₊₁ = (2n+1)x·Pₙ − n·Pₙ₋₁. Negative degrees follow
// P₋ₙ₋₁ = Pₙ, so P₋₁ = P₀ = 1.
func Legendre(n int, x float64) float64 {
	if n < 0 {
		n = -n - 1
	}
	if n == 0 {
		return 1
	}
	p0, p1 := 1.0, x
	for k := 1; k < n; k++ {
		p0, p1 = p1, (float64(2*k+1)*x*p1-float64(k)*p0)/float64(k+1)
	}
	return p1
}

// legendreSeries fills dst[n] = Pₙ(x) for n = 0..len(dst)-1.
func legendreSeries(dst []float64, x float64) {
	for n := range dst {
		switch n {
		case 0:
			dst[0] = 1
		case 1:
			dst[1] = x
		default:
			k := float64(n - 1)
			dst[n] = ((2*k+1)*x*dst[n-1] - k*dst[n-2]) / (k + 1)
		}
	}
}

// legendreDerivatives fills dst[n] = Pₙ'(x) from p[n] = Pₙ(x) using
// Pₙ₊₁' = Pₙ₋₁' + (2n+1)Pₙ, which stays finite at x = ±1.
func legendreDerivatives(dst, p []float64) {
	for n := range dst {
		switch n {
		case 0:
			dst[0] = 0
		case 1:
			dst[1] = 1
		default:
			dst[n] = dst[n-2] + float64(2*n-1)*p[n-1]
		}
	}
}
