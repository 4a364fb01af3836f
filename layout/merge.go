package layout

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/strata/model"
)

// MergeConfig holds configuration for character-to-block merging
type MergeConfig struct {
	// HorizontalGapRatio is the largest horizontal gap between a character and
	// a block, as a multiple of the character's font size (default: 2.0)
	HorizontalGapRatio float64

	// VerticalGapRatio is the largest vertical gap between a character and a
	// block, as a multiple of the character's font size (default: 1.5)
	VerticalGapRatio float64

	// OverlapThreshold is the fraction of a character's box that must lie
	// inside a block for the character to merge regardless of gaps (default: 0.05)
	OverlapThreshold float64

	// HorizontalWeight and VerticalWeight weight the distance used to choose
	// between eligible blocks (defaults: 5.0 and 1.0)
	HorizontalWeight float64
	VerticalWeight   float64

	// MaxOpenBlocks bounds how many recently extended blocks are considered
	// for each character (default: 4)
	MaxOpenBlocks int

	// DefaultFontSize is used for gap thresholds when a character has no
	// usable font size (default: 12)
	DefaultFontSize float64

	// NormalizeText applies Unicode NFC normalization to block text (default: true)
	NormalizeText bool
}

// DefaultMergeConfig returns sensible default configuration
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		HorizontalGapRatio: 2.0,
		VerticalGapRatio:   1.5,
		OverlapThreshold:   0.05,
		HorizontalWeight:   5.0,
		VerticalWeight:     1.0,
		MaxOpenBlocks:      4,
		DefaultFontSize:    12.0,
		NormalizeText:      true,
	}
}

// BlockMerger merges positioned characters into text blocks
type BlockMerger struct {
	config MergeConfig
}

// NewBlockMerger creates a new merger with default configuration
func NewBlockMerger() *BlockMerger {
	return &BlockMerger{
		config: DefaultMergeConfig(),
	}
}

// NewBlockMergerWithConfig creates a merger with custom configuration
func NewBlockMergerWithConfig(config MergeConfig) *BlockMerger {
	return &BlockMerger{
		config: config,
	}
}

// MergeResult contains the merged blocks of one page
type MergeResult struct {
	// Blocks are the merged blocks in creation order
	Blocks []model.TextBlock

	// Members holds, for each block, the indices of its input characters
	Members [][]int

	// Config used for merging
	Config MergeConfig
}

// BlockCount returns the number of blocks
func (r *MergeResult) BlockCount() int {
	if r == nil {
		return 0
	}
	return len(r.Blocks)
}

// GetBlock returns a block by index, or nil if out of range
func (r *MergeResult) GetBlock(index int) *model.TextBlock {
	if r == nil || index < 0 || index >= len(r.Blocks) {
		return nil
	}
	return &r.Blocks[index]
}

// GetText returns the text of all blocks, one per line
func (r *MergeResult) GetText() string {
	if r == nil {
		return ""
	}
	texts := make([]string, len(r.Blocks))
	for i, b := range r.Blocks {
		texts[i] = b.Text
	}
	return strings.Join(texts, "\n")
}

// pendingBlock is a block while characters are still being merged into it
type pendingBlock struct {
	text     strings.Builder
	fontSize float64
	bbox     model.BBox
	last     model.BBox // box of the most recently merged character
	members  []int
}

// Merge merges characters, in the order given, into blocks.
func (m *BlockMerger) Merge(chars []model.Character) *MergeResult {
	result := &MergeResult{
		Blocks:  []model.TextBlock{},
		Members: [][]int{},
		Config:  m.config,
	}
	if len(chars) == 0 {
		return result
	}

	maxOpen := m.config.MaxOpenBlocks
	if maxOpen < 1 {
		maxOpen = 1
	}

	var blocks []*pendingBlock
	// open holds block indices ordered from least to most recently extended
	open := make([]int, 0, maxOpen)

	for i, c := range chars {
		best := m.selectBlock(c, blocks, open)

		if best < 0 {
			if len(open) == maxOpen {
				open = open[1:]
			}
			pb := &pendingBlock{
				fontSize: c.FontSize,
				bbox:     c.BBox,
				last:     c.BBox,
				members:  []int{i},
			}
			pb.text.WriteString(c.Text)
			blocks = append(blocks, pb)
			open = append(open, len(blocks)-1)
			continue
		}

		pb := blocks[best]
		pb.text.WriteString(c.Text)
		pb.bbox = pb.bbox.Union(c.BBox)
		pb.last = c.BBox
		pb.members = append(pb.members, i)
		open = touch(open, best)
	}

	for _, pb := range blocks {
		text := pb.text.String()
		if m.config.NormalizeText {
			text = norm.NFC.String(text)
		}
		result.Blocks = append(result.Blocks, model.TextBlock{
			Text:        text,
			FontSize:    pb.fontSize,
			BBox:        pb.bbox,
			Annotations: m.styleAnnotations(chars, pb.members, text),
		})
		result.Members = append(result.Members, pb.members)
	}

	return result
}

// selectBlock returns the index of the eligible open block with the lowest
// weighted distance to c, or -1 if none is eligible. On equal distance the
// most recently extended block wins.
func (m *BlockMerger) selectBlock(c model.Character, blocks []*pendingBlock, open []int) int {
	fs := c.FontSize
	if fs <= 0 || math.IsNaN(fs) || math.IsInf(fs, 0) {
		fs = m.config.DefaultFontSize
	}
	maxDX := fs * m.config.HorizontalGapRatio
	maxDY := fs * m.config.VerticalGapRatio

	best := -1
	bestScore := math.Inf(1)

	for j := len(open) - 1; j >= 0; j-- {
		idx := open[j]
		pb := blocks[idx]

		dx, dy := pb.bbox.Gap(c.BBox)
		eligible := dx <= maxDX && dy <= maxDY
		if !eligible && c.BBox.IntersectionRatio(pb.bbox) > m.config.OverlapThreshold {
			eligible = true
		}
		if !eligible {
			continue
		}

		score := m.score(c.BBox, pb.last)
		if score < bestScore {
			best = idx
			bestScore = score
		}
	}

	return best
}

// score is the weighted distance between a character and the last character
// merged into a block. Horizontal distance is measured from the block's
// trailing character to the new character's leading edge.
func (m *BlockMerger) score(char, last model.BBox) float64 {
	dx := math.Abs(char.Left() - last.Right())
	dy := math.Abs(char.Center().Y - last.Center().Y)
	wx := m.config.HorizontalWeight * dx
	wy := m.config.VerticalWeight * dy
	return math.Sqrt(wx*wx + wy*wy)
}

// touch moves idx to the most-recent end of open
func touch(open []int, idx int) []int {
	for i, v := range open {
		if v == idx {
			copy(open[i:], open[i+1:])
			open[len(open)-1] = idx
			break
		}
	}
	return open
}
