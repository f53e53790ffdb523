package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"verity/internal/audit"
	"verity/internal/audit/redflag"
	"verity/internal/catalog"
	"verity/internal/domain"
	"verity/internal/extract"
	"verity/internal/port"
	"verity/internal/service"
	"verity/mocks"
)

func newEngine(t *testing.T) *audit.Engine {
	t.Helper()
	cat, err := catalog.New(catalog.BuiltinRules())
	require.NoError(t, err)
	return audit.NewEngine(cat, redflag.AllBuiltinDetectors(cat), audit.DefaultThresholds())
}

func TestAnalyzeFile_HappyPath(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		Text:          "FACILITY FEE $350.00\nFACILITY FEE $350.00",
		OCRConfidence: 92,
		ModelUsed:     "gemini-2.0-flash",
	}, nil)

	svc := service.NewAuditService(extractor, newEngine(t), 20)

	result, auditErr, err := svc.AnalyzeFile(context.Background(), []byte("%PDF-"), "application/pdf")
	require.NoError(t, err)
	require.Nil(t, auditErr)
	require.NotNil(t, result)
	assert.Len(t, result.Findings, 1)
	assert.Equal(t, 350.00, result.Summary.EstimatedSavings)
}

func TestAnalyzeFile_MissingFile(t *testing.T) {
	svc := service.NewAuditService(new(mocks.MockTextExtractor), newEngine(t), 20)

	_, _, err := svc.AnalyzeFile(context.Background(), nil, "application/pdf")
	assert.ErrorIs(t, err, domain.ErrMissingFile)
}

func TestAnalyzeFile_UnsupportedContentType(t *testing.T) {
	svc := service.NewAuditService(new(mocks.MockTextExtractor), newEngine(t), 20)

	_, _, err := svc.AnalyzeFile(context.Background(), []byte("GIF89a"), "image/gif")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestAnalyzeFile_FileTooLarge(t *testing.T) {
	svc := service.NewAuditService(new(mocks.MockTextExtractor), newEngine(t), 1)

	big := make([]byte, 2*1024*1024)
	_, _, err := svc.AnalyzeFile(context.Background(), big, "application/pdf")
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestAnalyzeFile_RateLimitedExtractor(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(nil, extract.NewRateLimitError("all", errors.New("429"), 60))

	svc := service.NewAuditService(extractor, newEngine(t), 20)

	_, _, err := svc.AnalyzeFile(context.Background(), []byte("%PDF-"), "application/pdf")
	assert.ErrorIs(t, err, domain.ErrExtractorRateLimited)
}

func TestAnalyzeFile_ExtractionFailure(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	svc := service.NewAuditService(extractor, newEngine(t), 20)

	_, _, err := svc.AnalyzeFile(context.Background(), []byte("%PDF-"), "application/pdf")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestAnalyzeFile_LowOCRBecomesAuditError(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		Text:          "FACILITY FEE $350.00",
		OCRConfidence: 40,
		ModelUsed:     "gemini-2.0-flash",
	}, nil)

	svc := service.NewAuditService(extractor, newEngine(t), 20)

	result, auditErr, err := svc.AnalyzeFile(context.Background(), []byte("%PDF-"), "application/pdf")
	require.NoError(t, err)
	assert.Nil(t, result)
	require.NotNil(t, auditErr)
	assert.Equal(t, domain.ErrCodeLowOCRConfidence, auditErr.ErrorCode)
}

func TestAnalyzeText(t *testing.T) {
	svc := service.NewAuditService(new(mocks.MockTextExtractor), newEngine(t), 20)

	result, auditErr, err := svc.AnalyzeText(context.Background(), &domain.BillDocument{
		Text:          "OFFICE VISIT (99213) 01/15/2024 $150.00",
		OCRConfidence: 100,
	})
	require.NoError(t, err)
	require.Nil(t, auditErr)
	assert.Equal(t, string(domain.AuditStatusClean), result.Summary.Status)
}

func TestAnalyzeText_MissingText(t *testing.T) {
	svc := service.NewAuditService(new(mocks.MockTextExtractor), newEngine(t), 20)

	_, _, err := svc.AnalyzeText(context.Background(), &domain.BillDocument{OCRConfidence: 100})
	assert.ErrorIs(t, err, domain.ErrMissingFields)
}

func TestAppealService_Generate(t *testing.T) {
	svc := service.NewAppealService()

	content, err := svc.Generate(context.Background(), &domain.AppealInput{
		Service:        "MRI of the knee",
		DenialReason:   "prior authorization missing",
		DesiredOutcome: "approve the claim",
	})
	require.NoError(t, err)
	assert.Contains(t, content.Letter, "MRI of the knee")
	assert.NotEmpty(t, content.Script)
}

func TestAppealService_MissingFields(t *testing.T) {
	svc := service.NewAppealService()

	_, err := svc.Generate(context.Background(), &domain.AppealInput{Service: "MRI"})
	assert.ErrorIs(t, err, domain.ErrMissingFields)
}
