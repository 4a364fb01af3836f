package layout

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/strata/model"
)

// ErrInvalidClusterCount is returned when fewer than one cluster is requested
var ErrInvalidClusterCount = errors.New("cluster count must be at least 1")

// Unassigned is the rank reported for a block whose font size is not a finite number
const Unassigned = -1

// ClusterConfig holds configuration for font size clustering
type ClusterConfig struct {
	// MaxIterations bounds the number of k-means iterations (default: 100)
	MaxIterations int

	// ConvergenceThreshold stops iteration once no centroid moves more than
	// this many points (default: 0.01)
	ConvergenceThreshold float64

	// DedupTolerance merges font sizes closer than this many points before
	// clustering (default: 0.05)
	DedupTolerance float64
}

// DefaultClusterConfig returns sensible default configuration
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		MaxIterations:        100,
		ConvergenceThreshold: 0.01,
		DedupTolerance:       0.05,
	}
}

// FontSizeClusterer groups the font sizes of a page into ranked clusters
// using a deterministic one-dimensional k-means.
type FontSizeClusterer struct {
	config ClusterConfig
}

// NewFontSizeClusterer creates a new clusterer with default configuration
func NewFontSizeClusterer() *FontSizeClusterer {
	return &FontSizeClusterer{
		config: DefaultClusterConfig(),
	}
}

// NewFontSizeClustererWithConfig creates a clusterer with custom configuration
func NewFontSizeClustererWithConfig(config ClusterConfig) *FontSizeClusterer {
	return &FontSizeClusterer{
		config: config,
	}
}

// ClusterResult contains the clusters of one page
type ClusterResult struct {
	// Clusters are sorted by centroid, largest first, with dense ranks from 0
	Clusters []model.FontCluster

	// Ranks holds the cluster rank of each input block, or Unassigned
	Ranks []int

	// Iterations is the number of k-means iterations performed
	Iterations int

	// Converged reports whether the centroids settled before MaxIterations
	Converged bool
}

// ClusterCount returns the number of realized clusters
func (r *ClusterResult) ClusterCount() int {
	if r == nil {
		return 0
	}
	return len(r.Clusters)
}

// RankOf returns the cluster rank of block i, or Unassigned
func (r *ClusterResult) RankOf(i int) int {
	if r == nil || i < 0 || i >= len(r.Ranks) {
		return Unassigned
	}
	return r.Ranks[i]
}

// Centroids returns the cluster centroids, largest first
func (r *ClusterResult) Centroids() []float64 {
	if r == nil {
		return nil
	}
	centroids := make([]float64, len(r.Clusters))
	for i, c := range r.Clusters {
		centroids[i] = c.Centroid
	}
	return centroids
}

// Cluster partitions the font sizes of blocks into at most k clusters.
//
// Centroids start at the k largest distinct sizes, so identical input always
// yields identical clusters. When fewer than k distinct sizes exist, k is
// reduced to that count.
func (c *FontSizeClusterer) Cluster(blocks []model.TextBlock, k int) (*ClusterResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidClusterCount, k)
	}

	result := &ClusterResult{
		Clusters: []model.FontCluster{},
		Ranks:    make([]int, len(blocks)),
	}
	for i := range result.Ranks {
		result.Ranks[i] = Unassigned
	}

	sizes := c.distinctSizes(blocks)
	if len(sizes) == 0 {
		result.Converged = true
		return result, nil
	}
	if k > len(sizes) {
		k = len(sizes)
	}

	centroids := make([]float64, k)
	copy(centroids, sizes[:k])

	maxIter := c.config.MaxIterations
	if maxIter < 1 {
		maxIter = 1
	}

	for iter := 0; iter < maxIter; iter++ {
		groups := assignToCentroids(sizes, centroids)

		moved := 0.0
		for i, g := range groups {
			if len(g) == 0 {
				// An empty cluster keeps its centroid
				continue
			}
			mean := meanOf(g)
			moved = math.Max(moved, math.Abs(mean-centroids[i]))
			centroids[i] = mean
		}

		result.Iterations = iter + 1
		if moved <= c.config.ConvergenceThreshold {
			result.Converged = true
			break
		}
	}

	// Final assignment; clusters left empty are dropped
	groups := assignToCentroids(sizes, centroids)
	for i, g := range groups {
		if len(g) == 0 {
			continue
		}
		result.Clusters = append(result.Clusters, model.FontCluster{
			Centroid: centroids[i],
			Sizes:    g,
		})
	}

	sort.SliceStable(result.Clusters, func(i, j int) bool {
		return result.Clusters[i].Centroid > result.Clusters[j].Centroid
	})
	for i := range result.Clusters {
		result.Clusters[i].Rank = i
	}

	final := result.Centroids()
	for i, b := range blocks {
		if !isFinite(b.FontSize) {
			continue
		}
		rank := nearest(b.FontSize, final)
		result.Ranks[i] = rank
		result.Clusters[rank].BlockCount++
	}

	return result, nil
}

// distinctSizes returns the finite font sizes of blocks, sorted descending,
// with sizes closer than DedupTolerance to the previously kept size removed.
func (c *FontSizeClusterer) distinctSizes(blocks []model.TextBlock) []float64 {
	all := make([]float64, 0, len(blocks))
	for _, b := range blocks {
		if isFinite(b.FontSize) {
			all = append(all, b.FontSize)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(all)))

	var sizes []float64
	for _, s := range all {
		if len(sizes) > 0 && math.Abs(sizes[len(sizes)-1]-s) < c.config.DedupTolerance {
			continue
		}
		sizes = append(sizes, s)
	}
	return sizes
}

// assignToCentroids groups sizes by nearest centroid
func assignToCentroids(sizes, centroids []float64) [][]float64 {
	groups := make([][]float64, len(centroids))
	for _, s := range sizes {
		i := nearest(s, centroids)
		groups[i] = append(groups[i], s)
	}
	return groups
}

// nearest returns the index of the centroid closest to v. Ties go to the
// lower index.
func nearest(v float64, centroids []float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if d := math.Abs(v - c); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
