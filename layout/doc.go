// Package layout infers the visual structure of a single page from its
// positioned characters.
//
// Processing runs in three stages, each with its own configurable component:
//
//   - [BlockMerger] - merges characters into text blocks by weighted proximity
//   - [FontSizeClusterer] - groups block font sizes with a deterministic k-means
//   - [LevelAssigner] - maps cluster ranks to heading levels H1..H6 or body
//
// A typical run:
//
//	merged := layout.NewBlockMerger().Merge(chars)
//	clusters, err := layout.NewFontSizeClusterer().Cluster(merged.Blocks, 6)
//	if err != nil {
//		return err
//	}
//	blocks := layout.AssignLevels(merged.Blocks, clusters, true)
//
// # Content Layers
//
// [LayerClassifier] marks blocks in the page's header and footer bands, and
// small-type blocks starting with a reference mark near the bottom of the
// page, so callers can keep them out of the heading hierarchy.
//
// # Configuration
//
// Each component has a Default*Config function and a New*WithConfig
// constructor:
//
//	config := layout.DefaultMergeConfig()
//	config.MaxOpenBlocks = 8
//	merger := layout.NewBlockMergerWithConfig(config)
package layout
