package port

import "context"

// ExtractInput carries the uploaded document for text extraction.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
}

// ExtractOutput is the raw text recovered from a document plus the provider's
// own confidence in the extraction quality.
type ExtractOutput struct {
	Text          string
	OCRConfidence int
	ModelUsed     string
}

// TextExtractor abstracts OCR/LLM-based text extraction from bill documents.
type TextExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
