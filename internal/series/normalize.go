package series

import "gonum.org/v1/gonum/stat"

// MinVariance is the variance below which a sequence is treated as constant
// and left unnormalised.
const MinVariance = 1e-12

// MeanStd returns the population mean and standard deviation of x.
func MeanStd(x []float64) (mean, std float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(x, nil)
}

// ZNormalize returns a zero-mean, unit-variance copy of x. Constant
// sequences are returned unchanged.
func ZNormalize(x []float64) []float64 {
	out := append([]float64(nil), x...)
	ZNormalizeInPlace(out)
	return out
}

// ZNormalizeInPlace rescales x to zero mean and unit variance. Constant
// sequences are left as they are.
func ZNormalizeInPlace(x []float64) {
	mean, std := MeanStd(x)
	if std*std < MinVariance {
		return
	}
	for i := range x {
		x[i] = (x[i] - mean) / std
	}
}

// Normalized returns a copy of s whose channels are each z-normalised.
func (s *Series) Normalized() *Series {
	cp := make([][]float64, len(s.channels))
	for c, ch := range s.channels {
		cp[c] = ZNormalize(ch)
	}
	return &Series{channels: cp, label: s.label}
}
