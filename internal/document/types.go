package document

// Format is the declared document format, normalized from the file
// extension.
type Format string

const (
	FormatText     Format = ".txt"
	FormatRichText Format = ".rtf"
	FormatMarkdown Format = ".md"
	FormatDocx     Format = ".docx"
	FormatPDF      Format = ".pdf"
)

// FormatFromExt normalizes a file extension into a Format. Unknown
// extensions pass through so the dispatcher can reject them with a typed
// error.
func FormatFromExt(ext string) Format {
	return Format(ext)
}

// TextResult is the outcome of text extraction. ImageBased marks the
// scanned-document classification: the pages exist but carry no usable
// machine text, so the caller should render pages instead. Text is never
// empty on a non-image-based result.
type TextResult struct {
	Text       string
	ImageBased bool
	Pages      int
	CharCount  int
}

// EmbeddedImageSet lists raster images found embedded inside a document,
// with a flag for whether the document also has extractable text. The flag
// lets a caller analyze embedded photos even in a text-rich document.
type EmbeddedImageSet struct {
	Images  []string
	HasText bool
}
