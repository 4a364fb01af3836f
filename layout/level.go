package layout

import (
	"github.com/tsawler/strata/model"
)

// MaxHeadingRank is the largest cluster rank that maps to a heading
const MaxHeadingRank = 5

// LevelForRank maps a cluster rank to a hierarchy level: ranks 0..5 become
// H1..H6 and every other rank is body text.
func LevelForRank(rank int) model.HierarchyLevel {
	if rank < 0 || rank > MaxHeadingRank {
		return model.LevelBody
	}
	return model.HierarchyLevel(rank + 1)
}

// LevelStrategy selects how cluster ranks become hierarchy levels
type LevelStrategy int

const (
	// RankLevels maps rank r to H(r+1) for the six largest clusters
	RankLevels LevelStrategy = iota

	// FrequencyLevels treats the cluster holding the most blocks as body text
	// and only promotes clusters sufficiently larger than it to headings
	FrequencyLevels
)

func (s LevelStrategy) String() string {
	switch s {
	case FrequencyLevels:
		return "frequency"
	default:
		return "rank"
	}
}

// LevelConfig holds configuration for level assignment
type LevelConfig struct {
	// Strategy selects rank or frequency based assignment (default: RankLevels)
	Strategy LevelStrategy

	// MinHeadingRatio is the smallest heading/body centroid ratio for
	// FrequencyLevels (default: 1.15)
	MinHeadingRatio float64

	// MinHeadingGap is the smallest heading/body centroid difference in points
	// for FrequencyLevels (default: 1.5)
	MinHeadingGap float64

	// IncludeBBox copies block bounding boxes into the output (default: true)
	IncludeBBox bool
}

// DefaultLevelConfig returns sensible default configuration
func DefaultLevelConfig() LevelConfig {
	return LevelConfig{
		Strategy:        RankLevels,
		MinHeadingRatio: 1.15,
		MinHeadingGap:   1.5,
		IncludeBBox:     true,
	}
}

// LevelAssigner turns clustered blocks into hierarchical blocks
type LevelAssigner struct {
	config LevelConfig
}

// NewLevelAssigner creates a new assigner with default configuration
func NewLevelAssigner() *LevelAssigner {
	return &LevelAssigner{
		config: DefaultLevelConfig(),
	}
}

// NewLevelAssignerWithConfig creates an assigner with custom configuration
func NewLevelAssignerWithConfig(config LevelConfig) *LevelAssigner {
	return &LevelAssigner{
		config: config,
	}
}

// Levels returns the hierarchy level of each cluster, indexed by rank
func (a *LevelAssigner) Levels(result *ClusterResult) []model.HierarchyLevel {
	n := result.ClusterCount()
	levels := make([]model.HierarchyLevel, n)
	if n == 0 {
		return levels
	}

	if a.config.Strategy != FrequencyLevels {
		for rank := range levels {
			levels[rank] = LevelForRank(rank)
		}
		return levels
	}

	// Body is the cluster with the most blocks; the larger centroid wins ties
	body := 0
	for i, c := range result.Clusters {
		if c.BlockCount > result.Clusters[body].BlockCount {
			body = i
		}
	}
	bodyCentroid := result.Clusters[body].Centroid
	threshold := bodyCentroid * a.config.MinHeadingRatio
	if alt := bodyCentroid + a.config.MinHeadingGap; alt > threshold {
		threshold = alt
	}

	next := 0
	for rank, c := range result.Clusters {
		levels[rank] = model.LevelBody
		if rank == body || c.Centroid < threshold {
			continue
		}
		levels[rank] = LevelForRank(next)
		next++
	}
	return levels
}

// Assign pairs every block with the level of its cluster. Blocks without a
// cluster are body text.
func (a *LevelAssigner) Assign(blocks []model.TextBlock, result *ClusterResult) []model.HierarchicalBlock {
	levels := a.Levels(result)
	out := make([]model.HierarchicalBlock, len(blocks))
	for i, b := range blocks {
		level := model.LevelBody
		if rank := result.RankOf(i); rank >= 0 && rank < len(levels) {
			level = levels[rank]
		}
		out[i] = model.HierarchicalBlock{
			Text:        b.Text,
			Level:       level,
			FontSize:    b.FontSize,
			Annotations: b.Annotations,
		}
		if a.config.IncludeBBox {
			bbox := b.BBox
			out[i].BBox = &bbox
		}
	}
	return out
}

// AssignLevels applies rank-based levels to clustered blocks
func AssignLevels(blocks []model.TextBlock, result *ClusterResult, includeBBox bool) []model.HierarchicalBlock {
	config := DefaultLevelConfig()
	config.IncludeBBox = includeBBox
	return NewLevelAssignerWithConfig(config).Assign(blocks, result)
}
