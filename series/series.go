// Package series provides element-wise arithmetic over float64 sequences.
//
// A Series of length one broadcasts against a Series of any length, so a
// single formula serves both a scalar value and a batch of N values.
package series

import "fmt"

// Series is an ordered sequence of float64 samples.
type Series []float64

// Of returns a length-one Series holding x.
func Of(x float64) Series {
	return Series{x}
}

// Repeat returns a Series of n copies of x.
func Repeat(x float64, n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = x
	}
	return s
}

// Len returns the number of samples in s.
func (s Series) Len() int {
	return len(s)
}

// At returns sample i, or the only sample when s has length one.
func (s Series) At(i int) float64 {
	if len(s) == 1 {
		return s[0]
	}
	return s[i]
}

// Broadcast returns the length of the result of combining a and b.
// It panics if neither has length one and their lengths differ.
func Broadcast(a, b Series) int {
	return broadcast(len(a), len(b))
}

func broadcast(n, m int) int {
	switch {
	case n == m:
		return n
	case n == 1:
		return m
	case m == 1:
		return n
	}
	panic(fmt.Sprintf("series: length mismatch %d != %d", n, m))
}

// Map returns f applied to every sample of s.
func (s Series) Map(f func(float64) float64) Series {
	out := make(Series, len(s))
	for i, x := range s {
		out[i] = f(x)
	}
	return out
}

// Zip returns f applied pairwise to a and b, broadcasting as needed.
func Zip(a, b Series, f func(x, y float64) float64) Series {
	out := make(Series, Broadcast(a, b))
	for i := range out {
		out[i] = f(a.At(i), b.At(i))
	}
	return out
}

// Zip3 is Zip for three operands.
func Zip3(a, b, c Series, f func(x, y, z float64) float64) Series {
	out := make(Series, broadcast(Broadcast(a, b), len(c)))
	for i := range out {
		out[i] = f(a.At(i), b.At(i), c.At(i))
	}
	return out
}
