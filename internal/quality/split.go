package quality

import (
	"gonum.org/v1/gonum/stat"
)

// minWithin floors the within-side sum of squares of a split so that sides
// of identical distances yield a large finite F statistic instead of +Inf.
const minWithin = 1e-9

// bestGainRatio discretises the orderline with the single threshold that
// maximises information gain and returns gain / split information for that
// threshold. Thresholds are only placed between distinct distances. Ties go
// to the threshold with the smaller distance.
func bestGainRatio(line []Entry, numClasses int) float64 {
	n := len(line)
	if n < 2 {
		return 0
	}

	total := make([]int, numClasses)
	for _, en := range line {
		total[en.Class]++
	}
	buf := make([]float64, numClasses)
	hY := entropy(total, n, buf)
	if hY == 0 {
		return 0
	}

	left := make([]int, numClasses)
	right := make([]int, numClasses)
	bestGain, bestSplit := 0.0, 0
	for i := 1; i < n; i++ {
		left[line[i-1].Class]++
		if line[i].Distance == line[i-1].Distance {
			continue
		}
		for c := range right {
			right[c] = total[c] - left[c]
		}

		wl := float64(i) / float64(n)
		gain := hY - wl*entropy(left, i, buf) - (1-wl)*entropy(right, n-i, buf)
		if bestSplit == 0 || gain > bestGain {
			bestGain, bestSplit = gain, i
		}
	}
	if bestSplit == 0 {
		return 0
	}

	wl := float64(bestSplit) / float64(n)
	splitInfo := stat.Entropy([]float64{wl, 1 - wl})
	if splitInfo == 0 {
		return 0
	}
	return bestGain / splitInfo
}

// bestFStat scans every threshold between distinct distances of a binary
// orderline and returns the largest class-weighted F statistic.
//
// For a threshold the distances fall into a near and a far side. The F
// statistic is the one-way ANOVA of the distances grouped by side, so a
// wider gap between the sides and tighter sides both score higher. It is
// scaled by the share of the class-indicator variance the same split
// explains, which is 1 for a split that separates the candidate class
// perfectly and 0 for one that leaves the class mix unchanged.
func bestFStat(line []Entry) float64 {
	n := len(line)
	if n < 2 {
		return 0
	}

	pos := 0
	distances := make([]float64, n)
	for i, en := range line {
		pos += en.Class
		distances[i] = en.Distance
	}
	if pos == 0 || pos == n {
		return 0
	}

	df := float64(n - 2)
	if df < 1 {
		df = 1
	}
	fn := float64(n)
	p := float64(pos) / fn
	classVar := fn * p * (1 - p)

	// Distances are centred on their mean before the prefix sums.
	mu := stat.Mean(distances, nil)
	var total, totalSq float64
	for i := range distances {
		distances[i] -= mu
		total += distances[i]
		totalSq += distances[i] * distances[i]
	}

	best := 0.0
	posLeft := 0
	var sumL, sqL float64
	for i := 1; i < n; i++ {
		d := distances[i-1]
		sumL += d
		sqL += d * d
		posLeft += line[i-1].Class
		if line[i].Distance == line[i-1].Distance {
			continue
		}

		nl, nr := float64(i), float64(n-i)
		pl := float64(posLeft) / nl
		pr := float64(pos-posLeft) / nr
		explained := (nl*(pl-p)*(pl-p) + nr*(pr-p)*(pr-p)) / classVar
		if explained == 0 {
			continue
		}

		sumR, sqR := total-sumL, totalSq-sqL
		meanL, meanR := sumL/nl, sumR/nr
		between := nl*meanL*meanL + nr*meanR*meanR - total*total/fn
		within := (sqL - nl*meanL*meanL) + (sqR - nr*meanR*meanR)
		if within < minWithin {
			within = minWithin
		}

		if f := explained * between / (within / df); f > best {
			best = f
		}
	}
	return best
}

// entropy returns the Shannon entropy (nats) of counts summing to n. buf is
// scratch space of len(counts).
func entropy(counts []int, n int, buf []float64) float64 {
	if n == 0 {
		return 0
	}
	for i, c := range counts {
		buf[i] = float64(c) / float64(n)
	}
	return stat.Entropy(buf[:len(counts)])
}
