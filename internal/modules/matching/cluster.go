// README: Seeded k-means over driver capacities.
package matching

import (
	"math"
	"math/rand"
)

// KMeans is Lloyd's algorithm with k-means++ seeding and several restarts;
// the run with the lowest inertia wins. One rng drives all restarts, so a
// fixed Seed and input give a fixed result.
type KMeans struct {
	MaxClusters int
	Restarts    int
	MaxIter     int
	// Tol is relative to the mean per-dimension variance of the input.
	Tol  float64
	Seed int64
}

func DefaultKMeans(seed int64, maxClusters int) KMeans {
	if maxClusters <= 0 {
		maxClusters = defaultMaxClusters
	}
	return KMeans{MaxClusters: maxClusters, Restarts: 10, MaxIter: 300, Tol: 1e-4, Seed: seed}
}

type Clustering struct {
	Centroids []Capacity
	Labels    []int
	Inertia   float64
}

// Predict returns the label of the nearest centroid; ties go to the lower label.
func (c Clustering) Predict(p Capacity) int {
	return nearest(c.Centroids, p)
}

// ClusterCount is min(MaxClusters, n) for n > 1 and 1 otherwise, capped by
// the number of distinct points.
func (km KMeans) ClusterCount(points []Capacity) int {
	n := len(points)
	if n == 0 {
		return 0
	}
	k := 1
	if n > 1 {
		k = min(km.MaxClusters, n)
	}
	return max(1, min(k, distinct(points)))
}

func (km KMeans) Fit(points []Capacity) Clustering {
	k := km.ClusterCount(points)
	if k == 0 {
		return Clustering{}
	}
	rng := rand.New(rand.NewSource(km.Seed))
	tol := km.Tol * meanVariance(points)
	restarts := max(1, km.Restarts)
	maxIter := max(1, km.MaxIter)

	best := Clustering{Inertia: math.Inf(1)}
	for r := 0; r < restarts; r++ {
		centers := seedPlusPlus(points, k, rng)
		c := lloyd(points, centers, maxIter, tol)
		if c.Inertia < best.Inertia {
			best = c
		}
	}
	return best
}

func seedPlusPlus(points []Capacity, k int, rng *rand.Rand) []Capacity {
	n := len(points)
	centers := make([]Capacity, 0, k)
	centers = append(centers, points[rng.Intn(n)])

	d2 := make([]float64, n)
	for i, p := range points {
		d2[i] = sqDist(p, centers[0])
	}
	for len(centers) < k {
		var sum float64
		for _, d := range d2 {
			sum += d
		}
		if sum == 0 {
			break
		}
		target := rng.Float64() * sum
		pick := -1
		var acc float64
		for i, d := range d2 {
			if d == 0 {
				continue
			}
			pick = i
			acc += d
			if acc > target {
				break
			}
		}
		c := points[pick]
		centers = append(centers, c)
		for i, p := range points {
			if d := sqDist(p, c); d < d2[i] {
				d2[i] = d
			}
		}
	}
	return centers
}

func lloyd(points []Capacity, centers []Capacity, maxIter int, tol float64) Clustering {
	k := len(centers)
	labels := make([]int, len(points))
	sums := make([]Capacity, k)
	counts := make([]int, k)

	for it := 0; it < maxIter; it++ {
		for i, p := range points {
			labels[i] = nearest(centers, p)
		}
		for j := range sums {
			sums[j] = Capacity{}
			counts[j] = 0
		}
		for i, p := range points {
			l := labels[i]
			sums[l].Weight += p.Weight
			sums[l].Volume += p.Volume
			counts[l]++
		}
		var shift float64
		for j := range centers {
			if counts[j] == 0 {
				// empty cluster keeps its previous centre
				continue
			}
			next := Capacity{Weight: sums[j].Weight / float64(counts[j]), Volume: sums[j].Volume / float64(counts[j])}
			shift += sqDist(centers[j], next)
			centers[j] = next
		}
		if shift <= tol {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		labels[i] = nearest(centers, p)
		inertia += sqDist(p, centers[labels[i]])
	}
	return Clustering{Centroids: centers, Labels: labels, Inertia: inertia}
}

func nearest(centers []Capacity, p Capacity) int {
	best, bestD := 0, math.Inf(1)
	for j, c := range centers {
		if d := sqDist(p, c); d < bestD {
			best, bestD = j, d
		}
	}
	return best
}

func sqDist(a, b Capacity) float64 {
	dw := a.Weight - b.Weight
	dv := a.Volume - b.Volume
	return dw*dw + dv*dv
}

func distinct(points []Capacity) int {
	seen := make(map[Capacity]struct{}, len(points))
	for _, p := range points {
		seen[p] = struct{}{}
	}
	return len(seen)
}

func meanVariance(points []Capacity) float64 {
	n := float64(len(points))
	var mw, mv float64
	for _, p := range points {
		mw += p.Weight
		mv += p.Volume
	}
	mw /= n
	mv /= n
	var vw, vv float64
	for _, p := range points {
		vw += (p.Weight - mw) * (p.Weight - mw)
		vv += (p.Volume - mv) * (p.Volume - mv)
	}
	return (vw/n + vv/n) / 2
}
