// Package model provides the data types shared by every stage of structure
// extraction.
//
// # Page Input
//
// A layout collaborator supplies [Character] values for a page. The layout
// package merges them into [TextBlock] values and assigns each block a
// [HierarchyLevel], producing a [PageHierarchy] of [HierarchicalBlock] values.
//
// # Document Structure
//
// The [DocumentStructure] type is a forest stored in one flat slice. Nodes
// refer to their parent and children by [NodeIndex], never by pointer, so a
// structure can be copied, appended to another and serialized directly:
//
//	doc := model.NewDocumentStructure()
//	h := doc.AddNode(model.DocumentNode{Content: model.Heading{Level: 1, Text: "Intro"}}, model.NoParent)
//	doc.AddNode(model.DocumentNode{Content: model.Paragraph{Text: "..."}}, h)
//
// # Node Content
//
// [NodeContent] is a closed sum type. Its variants are [Title], [Heading],
// [Paragraph], [List], [ListItem], [Table], [Image], [Code], [Quote],
// [Formula], [Footnote], [Group] and [PageBreak]. Each node also carries a
// [ContentLayer] and optional [TextAnnotation] spans over its text.
//
// # Tables
//
// [TableGrid] places [TableCell] values on a rows x cols grid with row and
// column spans, and exports to Markdown and CSV.
//
// # Geometry
//
//   - [BBox] - bounding box with intersection, union, gap and overlap calculations
//   - [Point] - 2D point with distance calculation
package model
