package dataset

import (
	"math"
	"math/rand"
)

// sampler wraps a seeded source with the handful of distributions the
// generator draws from. All methods are deterministic for a fixed seed.
type sampler struct {
	rng *rand.Rand
}

func newSampler(seed int64) *sampler {
	return &sampler{rng: rand.New(rand.NewSource(seed))}
}

func (s *sampler) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// normal draws from N(mean, stddev) via the source's Box-Muller variate.
func (s *sampler) normal(mean, stddev float64) float64 {
	return mean + s.rng.NormFloat64()*stddev
}

// logNormal draws exp(N(mu, sigma)).
func (s *sampler) logNormal(mu, sigma float64) float64 {
	return math.Exp(s.normal(mu, sigma))
}

// exponential draws from Exp with the given mean.
func (s *sampler) exponential(mean float64) float64 {
	return s.rng.ExpFloat64() * mean
}

// poisson draws a Poisson count via Knuth's multiplication method.
// Fine for the small lambdas used here (≤ 15).
func (s *sampler) poisson(lambda float64) float64 {
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= s.rng.Float64()
		if p <= l {
			return float64(k)
		}
		k++
	}
}

// gamma draws from Gamma(shape, scale) using Marsaglia-Tsang squeeze
// rejection, with the shape<1 boost.
func (s *sampler) gamma(shape, scale float64) float64 {
	if shape < 1 {
		u := s.rng.Float64()
		return s.gamma(shape+1, scale) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		x := s.rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := s.rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// bernoulli returns 1 with probability p.
func (s *sampler) bernoulli(p float64) float64 {
	if s.rng.Float64() < p {
		return 1
	}
	return 0
}

// pick returns true with probability 0.5; used for two-way mixture choices.
func (s *sampler) pick() bool {
	return s.rng.Intn(2) == 0
}
