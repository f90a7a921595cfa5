package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shelflife/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Items    int                        `json:"items"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
	Warnings []compiler.ValidationError `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog>",
		Short: "Validate a CUE item catalog",
		Long: `Load a CUE catalog (file or directory) and check every item.

Besides decoding errors, validate reports empty names, missing rates,
inverted ranges, out-of-range starting quality, and countdown values the
item will reach that no rule covers. Overlapping rules are reported as
warnings: the first matching rule always wins.

Exit codes:
  0 - Catalog valid (warnings allowed)
  1 - One or more items invalid
  2 - Catalog could not be loaded`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, catalogPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	catalog, loadErrors := compiler.LoadCatalog(catalogPath, compiler.LoadModeCollectAll)

	// Handle load errors (path not found, no files, CUE syntax, etc.)
	if catalog == nil && len(loadErrors) > 0 {
		var loadErr *compiler.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Error())
		}
		return outputValidateError(formatter, compiler.ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Loaded %d item(s) from %d CUE file(s) in %s", len(catalog.Items), catalog.FileCount, catalogPath)

	var findings []compiler.ValidationError

	// Items that failed to compile are reported with their load error code
	for _, err := range loadErrors {
		var loadErr *compiler.LoadError
		if errors.As(err, &loadErr) {
			findings = append(findings, compiler.ValidationError{
				Item:     loadErr.Item,
				Field:    "load",
				Message:  loadErr.Error(),
				Code:     loadErr.Code,
				Severity: compiler.SeverityError,
			})
		}
	}

	for _, ci := range catalog.Items {
		formatter.VerboseLog("Validating item: %s", ci.ID)
		findings = append(findings, compiler.Validate(ci.ID, ci.Item)...)
	}

	result := ValidationResult{Valid: true, Items: len(catalog.Items) + len(loadErrors)}
	for _, f := range findings {
		if f.IsWarning() {
			result.Warnings = append(result.Warnings, f)
		} else {
			result.Errors = append(result.Errors, f)
			result.Valid = false
		}
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	printWarnings(formatter, result.Warnings)
	fmt.Fprintf(formatter.Writer, "✓ All items valid (%d)\n", result.Items)
	return nil
}

// outputValidateError outputs a catalog-level error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs item-level findings.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))

	if formatter.Format == "json" {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    result.Errors[0].Code,
				Message: result.Errors[0].Message,
			},
		}); err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range result.Errors {
		fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	}
	printWarnings(formatter, result.Warnings)

	return failure
}

func printWarnings(formatter *OutputFormatter, warnings []compiler.ValidationError) {
	for _, w := range warnings {
		fmt.Fprintf(formatter.Writer, "  warning %s\n", w.Error())
	}
}
