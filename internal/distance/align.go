package distance

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/your-org/shapelet-transform/internal/series"
)

// bestAlignment returns the minimum, over every offset, of the squared error
// between the pattern rows and the z-normalised target window at that
// offset, summed across rows.
//
// Window mean and variance come from running sums over each target row
// shifted by the row's global mean, so a large constant offset does not
// cancel away the variance. The sums are rebuilt from scratch every l
// offsets to bound rounding drift. The pass over a window stops as soon as
// its partial error reaches the best error found so far.
func bestAlignment(pattern, target [][]float64) float64 {
	rows := len(pattern)
	l := len(pattern[0])
	n := len(target[0])
	fl := float64(l)

	shift := make([]float64, rows)
	for c := 0; c < rows; c++ {
		shift[c] = stat.Mean(target[c], nil)
	}

	sum := make([]float64, rows)
	sumSq := make([]float64, rows)
	reset := func(off int) {
		for c := 0; c < rows; c++ {
			sum[c], sumSq[c] = 0, 0
			for _, v := range target[c][off : off+l] {
				v -= shift[c]
				sum[c] += v
				sumSq[c] += v * v
			}
		}
	}

	best := math.Inf(1)
	for off := 0; off+l <= n; off++ {
		if off%l == 0 {
			reset(off)
		} else {
			for c := 0; c < rows; c++ {
				out, in := target[c][off-1]-shift[c], target[c][off+l-1]-shift[c]
				sum[c] += in - out
				sumSq[c] += in*in - out*out
			}
		}

		var sse float64
		for c := 0; c < rows && sse < best; c++ {
			p := pattern[c]
			w := target[c][off : off+l]
			mean := sum[c] / fl
			variance := sumSq[c]/fl - mean*mean

			if variance < series.MinVariance {
				for j, v := range w {
					d := p[j] - v
					sse += d * d
					if sse >= best {
						break
					}
				}
				continue
			}

			inv := 1 / math.Sqrt(variance)
			for j, v := range w {
				d := p[j] - (v-shift[c]-mean)*inv
				sse += d * d
				if sse >= best {
					break
				}
			}
		}

		if sse < best {
			best = sse
		}
	}

	return best
}
