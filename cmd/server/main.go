package main

import (
	"fmt"
	"log"

	"verity/internal/audit"
	"verity/internal/audit/redflag"
	"verity/internal/catalog"
	"verity/internal/config"
	"verity/internal/extract"
	"verity/internal/extract/gemini"
	"verity/internal/handler"
	"verity/internal/port"
	"verity/internal/router"
	"verity/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Rule catalog: a structural problem here (including a preemption cycle)
	// must abort startup, never degrade to a partial rule set.
	cat, err := catalog.New(catalog.BuiltinRules())
	if err != nil {
		return fmt.Errorf("failed to load rule catalog: %w", err)
	}

	engine := audit.NewEngine(cat, redflag.AllBuiltinDetectors(cat), audit.Thresholds{
		OCRMin:           cfg.Audit.OCRMin,
		Publish:          cfg.Audit.Publish,
		NotesMin:         cfg.Audit.NotesMin,
		MaxFindings:      cfg.Audit.MaxFindings,
		HighValueCents:   cfg.Audit.HighValueCents,
		AdjustmentMinPct: cfg.Audit.AdjustmentMinPct,
	})

	extractor, err := buildExtractor(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize text extractor: %w", err)
	}

	// Initialize services
	auditSvc := service.NewAuditService(extractor, engine, cfg.Upload.MaxFileSizeMB)
	appealSvc := service.NewAppealService()

	// Initialize handlers
	analyzeH := handler.NewAnalyzeHandler(auditSvc)
	appealH := handler.NewAppealHandler(appealSvc)
	exportH := handler.NewExportHandler()
	healthH := handler.NewHealthHandler()

	// Setup router
	r := router.Setup(cfg, analyzeH, appealH, exportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// buildExtractor wires the configured providers into a fallback chain.
func buildExtractor(cfg *config.ExtractorConfig) (port.TextExtractor, error) {
	extract.RegisterProvider("gemini", func(pc *config.ExtractorProviderConfig) (port.TextExtractor, error) {
		return gemini.NewExtractor(pc), nil
	})

	var extractors []port.TextExtractor
	var names []string
	for _, pc := range []*config.ExtractorProviderConfig{
		cfg.PrimaryConfig(),
		cfg.SecondaryConfig(),
		cfg.TertiaryConfig(),
	} {
		if pc == nil || pc.Provider == "" {
			continue
		}
		x, err := extract.NewExtractor(pc)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, x)
		names = append(names, pc.Provider)
	}
	if len(extractors) == 0 {
		return nil, fmt.Errorf("no extractor providers configured")
	}
	return extract.NewFallbackExtractor(extractors, names), nil
}
