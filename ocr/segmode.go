package ocr

import "errors"

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode controls how Tesseract analyzes the page layout.
// Values match Tesseract's own numbering.
type PageSegMode int

// Page segmentation modes
const (
	PageSegOSDOnly       PageSegMode = 0  // Orientation and script detection only
	PageSegAutoOSD       PageSegMode = 1  // Automatic with OSD
	PageSegAutoOnly      PageSegMode = 2  // Automatic, no OSD or OCR
	PageSegAuto          PageSegMode = 3  // Fully automatic (default)
	PageSegSingleColumn  PageSegMode = 4  // Single column of variable sizes
	PageSegSingleBlockVT PageSegMode = 5  // Single uniform block of vertically aligned text
	PageSegSingleBlock   PageSegMode = 6  // Single uniform block of text
	PageSegSingleLine    PageSegMode = 7  // Single text line
	PageSegSingleWord    PageSegMode = 8  // Single word
	PageSegCircleWord    PageSegMode = 9  // Single word in a circle
	PageSegSingleChar    PageSegMode = 10 // Single character
	PageSegSparseText    PageSegMode = 11 // Find as much text as possible
	PageSegSparseTextOSD PageSegMode = 12 // Sparse text with OSD
	PageSegRawLine       PageSegMode = 13 // Treat image as single text line
)

// ParsePageSegMode validates a Tesseract mode number
func ParsePageSegMode(n int) (PageSegMode, error) {
	if n < int(PageSegOSDOnly) || n > int(PageSegRawLine) {
		return 0, errors.New("page segmentation mode must be between 0 and 13")
	}
	return PageSegMode(n), nil
}
