package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"verity/internal/audit"
	"verity/internal/audit/redflag"
	"verity/internal/catalog"
	"verity/internal/domain"
)

// errAuditFailed marks a policy outcome (the document could not be audited);
// the JSON error envelope has already been written when it is returned.
var errAuditFailed = errors.New("audit failed")

var (
	inputPath     string
	ocrConfidence int
	pretty        bool
)

// newRootCmd builds the audit CLI: read bill text, run the engine, print the
// result (or the policy error) as JSON. Exit code 1 means the document could
// not be audited; 2 means an operational failure.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run the red-flag audit over medical bill text",
		Long: `Reads already-extracted medical bill text from a file or stdin and runs the
deterministic red-flag audit, printing the result as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "bill text file ('-' for stdin)")
	cmd.Flags().IntVar(&ocrConfidence, "ocr-confidence", 100, "extraction confidence for the text (0-100)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")

	return cmd
}

func runAudit(out io.Writer) error {
	text, err := readInput(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	cat, err := catalog.New(catalog.BuiltinRules())
	if err != nil {
		return fmt.Errorf("loading rule catalog: %w", err)
	}
	engine := audit.NewEngine(cat, redflag.AllBuiltinDetectors(cat), audit.DefaultThresholds())

	result, auditErr := engine.Audit(&domain.BillDocument{
		Text:          text,
		OCRConfidence: ocrConfidence,
	})

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if auditErr != nil {
		if err := enc.Encode(auditErr); err != nil {
			return err
		}
		return errAuditFailed
	}
	return enc.Encode(result)
}

func readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errAuditFailed) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
