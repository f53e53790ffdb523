package domain

import "errors"

var (
	ErrMissingFile          = errors.New("no file was uploaded")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrMissingFields        = errors.New("required fields are missing")
	ErrExtractionFailed     = errors.New("text extraction failed")
	ErrExtractorRateLimited = errors.New("text extraction rate limited")
	ErrCatalogInvalid       = errors.New("rule catalog is invalid")
)
