package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/tsawler/strata/model"
)

func makeBlocks(sizes ...float64) []model.TextBlock {
	blocks := make([]model.TextBlock, len(sizes))
	for i, s := range sizes {
		blocks[i] = model.TextBlock{Text: "t", FontSize: s, BBox: model.NewBBox(0, float64(i)*20, 100, s)}
	}
	return blocks
}

func TestFontSizeClusterer_InvalidK(t *testing.T) {
	c := NewFontSizeClusterer()
	for _, k := range []int{0, -3} {
		_, err := c.Cluster(makeBlocks(12), k)
		if !errors.Is(err, ErrInvalidClusterCount) {
			t.Errorf("Cluster(k=%d) error = %v, want ErrInvalidClusterCount", k, err)
		}
	}
}

func TestFontSizeClusterer_Empty(t *testing.T) {
	result, err := NewFontSizeClusterer().Cluster(nil, 6)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if result.ClusterCount() != 0 {
		t.Errorf("expected 0 clusters, got %d", result.ClusterCount())
	}
}

func TestFontSizeClusterer_OneDistinctSize(t *testing.T) {
	result, err := NewFontSizeClusterer().Cluster(makeBlocks(12, 12, 12), 6)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if result.ClusterCount() != 1 {
		t.Fatalf("expected 1 cluster, got %d", result.ClusterCount())
	}
	if c := result.Clusters[0]; c.Rank != 0 || c.Centroid != 12 || c.BlockCount != 3 {
		t.Errorf("unexpected cluster %+v", c)
	}
	for i := 0; i < 3; i++ {
		if result.RankOf(i) != 0 {
			t.Errorf("RankOf(%d) = %d, want 0", i, result.RankOf(i))
		}
	}
}

func TestFontSizeClusterer_ThreeSizesThreeClusters(t *testing.T) {
	result, err := NewFontSizeClusterer().Cluster(makeBlocks(24, 18, 12), 3)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}

	want := []float64{24, 18, 12}
	got := result.Centroids()
	if len(got) != len(want) {
		t.Fatalf("Centroids() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Centroids()[%d] = %v, want %v", i, got[i], want[i])
		}
		if result.RankOf(i) != i {
			t.Errorf("RankOf(%d) = %d, want %d", i, result.RankOf(i), i)
		}
	}
	if !result.Converged {
		t.Error("expected convergence")
	}
}

func TestFontSizeClusterer_KSmallerThanDistinctSizes(t *testing.T) {
	result, err := NewFontSizeClusterer().Cluster(makeBlocks(24, 18, 12), 2)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}

	if result.ClusterCount() != 2 {
		t.Fatalf("expected 2 clusters, got %d", result.ClusterCount())
	}
	if c := result.Clusters[0]; c.Centroid != 24 || len(c.Sizes) != 1 {
		t.Errorf("cluster 0 = %+v, want {24}", c)
	}
	if c := result.Clusters[1]; c.Centroid != 15 || len(c.Sizes) != 2 {
		t.Errorf("cluster 1 = %+v, want {18, 12}", c)
	}
	wantRanks := []int{0, 1, 1}
	for i, want := range wantRanks {
		if result.RankOf(i) != want {
			t.Errorf("RankOf(%d) = %d, want %d", i, result.RankOf(i), want)
		}
	}
}

func TestFontSizeClusterer_KClampedToDistinctSizes(t *testing.T) {
	result, err := NewFontSizeClusterer().Cluster(makeBlocks(12, 10, 12, 10), 10)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if result.ClusterCount() != 2 {
		t.Errorf("expected 2 clusters, got %d", result.ClusterCount())
	}
}

func TestFontSizeClusterer_DedupTolerance(t *testing.T) {
	result, err := NewFontSizeClusterer().Cluster(makeBlocks(12, 12.02, 11.99, 18), 6)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if result.ClusterCount() != 2 {
		t.Fatalf("expected near-equal sizes to share a cluster, got %d clusters", result.ClusterCount())
	}
	if result.Clusters[1].BlockCount != 3 {
		t.Errorf("BlockCount = %d, want 3", result.Clusters[1].BlockCount)
	}
}

func TestFontSizeClusterer_NonFiniteSizes(t *testing.T) {
	result, err := NewFontSizeClusterer().Cluster(makeBlocks(12, math.NaN(), math.Inf(1)), 3)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if result.ClusterCount() != 1 {
		t.Errorf("expected 1 cluster, got %d", result.ClusterCount())
	}
	if result.RankOf(1) != Unassigned || result.RankOf(2) != Unassigned {
		t.Errorf("non-finite sizes should be unassigned, got %v", result.Ranks)
	}
}

func TestFontSizeClusterer_RankingInvariant(t *testing.T) {
	sizes := []float64{36, 30, 24, 20, 18, 16, 14, 13, 12, 11, 10, 9, 8, 12, 12, 11}
	blocks := makeBlocks(sizes...)

	for k := 1; k <= 10; k++ {
		result, err := NewFontSizeClusterer().Cluster(blocks, k)
		if err != nil {
			t.Fatalf("Cluster(k=%d) error = %v", k, err)
		}
		if result.ClusterCount() > k {
			t.Errorf("k=%d: %d clusters", k, result.ClusterCount())
		}

		for i, c := range result.Clusters {
			if c.Rank != i {
				t.Errorf("k=%d: cluster %d has rank %d", k, i, c.Rank)
			}
			if i > 0 && result.Clusters[i-1].Centroid < c.Centroid {
				t.Errorf("k=%d: centroids not descending: %v", k, result.Centroids())
			}
		}

		for i, b := range blocks {
			rank := result.RankOf(i)
			d := math.Abs(b.FontSize - result.Clusters[rank].Centroid)
			for _, c := range result.Clusters {
				if math.Abs(b.FontSize-c.Centroid) < d {
					t.Errorf("k=%d: block %d (%v) assigned to %v but %v is closer",
						k, i, b.FontSize, result.Clusters[rank].Centroid, c.Centroid)
				}
			}
		}
	}
}

func TestFontSizeClusterer_Deterministic(t *testing.T) {
	blocks := makeBlocks(24, 18, 17, 12, 11.5, 12, 9, 30)
	a, _ := NewFontSizeClusterer().Cluster(blocks, 4)
	b, _ := NewFontSizeClusterer().Cluster(blocks, 4)

	if a.ClusterCount() != b.ClusterCount() {
		t.Fatal("cluster counts differ")
	}
	for i := range a.Clusters {
		if a.Clusters[i].Centroid != b.Clusters[i].Centroid {
			t.Errorf("centroid %d differs: %v vs %v", i, a.Clusters[i].Centroid, b.Clusters[i].Centroid)
		}
	}
	for i := range a.Ranks {
		if a.Ranks[i] != b.Ranks[i] {
			t.Errorf("rank of block %d differs", i)
		}
	}
}

func TestFontSizeClusterer_IterationCap(t *testing.T) {
	config := DefaultClusterConfig()
	config.MaxIterations = 1
	config.ConvergenceThreshold = 0
	c := NewFontSizeClustererWithConfig(config)

	result, err := c.Cluster(makeBlocks(24, 18, 12), 2)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if result.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", result.Iterations)
	}
	if result.Converged {
		t.Error("expected no convergence within one iteration")
	}
}

func TestClusterResult_NilSafety(t *testing.T) {
	var r *ClusterResult
	if r.ClusterCount() != 0 {
		t.Error("expected 0 clusters from nil result")
	}
	if r.RankOf(0) != Unassigned {
		t.Error("expected Unassigned from nil result")
	}
	if r.Centroids() != nil {
		t.Error("expected nil centroids from nil result")
	}
}
