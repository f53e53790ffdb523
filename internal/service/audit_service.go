package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"verity/internal/audit"
	"verity/internal/domain"
	"verity/internal/extract"
	"verity/internal/port"
)

// AuditService orchestrates a bill audit: validate the upload, extract text,
// run the deterministic engine. Nothing is stored; every request is
// self-contained.
type AuditService struct {
	extractor     port.TextExtractor
	engine        *audit.Engine
	maxFileSizeMB int64
}

// NewAuditService creates an AuditService.
func NewAuditService(extractor port.TextExtractor, engine *audit.Engine, maxFileSizeMB int64) *AuditService {
	return &AuditService{
		extractor:     extractor,
		engine:        engine,
		maxFileSizeMB: maxFileSizeMB,
	}
}

// AnalyzeFile audits an uploaded bill document. The *domain.AuditError return
// is a policy outcome (unreadable scan, unparseable text); infrastructure
// failures come back as the error return.
func (s *AuditService) AnalyzeFile(ctx context.Context, fileBytes []byte, contentType string) (*domain.AuditResult, *domain.AuditError, error) {
	if len(fileBytes) == 0 {
		return nil, nil, domain.ErrMissingFile
	}
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, contentType)
	}
	if int64(len(fileBytes)) > s.maxFileSizeMB*1024*1024 {
		return nil, nil, fmt.Errorf("%w: limit %dMB", domain.ErrFileTooLarge, s.maxFileSizeMB)
	}

	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   fileBytes,
		ContentType: contentType,
	})
	if err != nil {
		var rlErr *extract.RateLimitError
		if errors.As(err, &rlErr) {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrExtractorRateLimited, err)
		}
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	log.Printf("service.AuditService: extracted %d bytes of text via %s (ocr confidence %d)", len(out.Text), out.ModelUsed, out.OCRConfidence)

	result, auditErr := s.engine.Audit(&domain.BillDocument{
		Text:          out.Text,
		OCRConfidence: out.OCRConfidence,
	})
	return result, auditErr, nil
}

// AnalyzeText audits already-extracted bill text. Callers that have text but
// no OCR pipeline pass full confidence.
func (s *AuditService) AnalyzeText(ctx context.Context, doc *domain.BillDocument) (*domain.AuditResult, *domain.AuditError, error) {
	if doc.Text == "" {
		return nil, nil, fmt.Errorf("%w: text", domain.ErrMissingFields)
	}
	result, auditErr := s.engine.Audit(doc)
	return result, auditErr, nil
}
