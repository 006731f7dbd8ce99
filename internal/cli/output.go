package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"bl-extractor/internal/database"
	"bl-extractor/internal/document"
	"bl-extractor/internal/parser"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
)

// ColorEnabled reports whether f should get styled output: it must be a
// terminal, the user must not have opted out, and the environment must
// support at least basic ANSI colors.
func ColorEnabled(noColor bool, f *os.File) bool {
	if noColor || termenv.EnvNoColor() {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

// OutputFormatter handles different output formats
type OutputFormatter struct {
	format   string
	quiet    bool
	useColor bool
	out      io.Writer
	errOut   io.Writer
}

// NewOutputFormatter creates a new output formatter writing to stdout
func NewOutputFormatter(format string, quiet bool) *OutputFormatter {
	return &OutputFormatter{
		format: format,
		quiet:  quiet,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// NewOutputFormatterWithColor creates a formatter that styles table output
// when stdout supports it
func NewOutputFormatterWithColor(format string, quiet, noColor bool) *OutputFormatter {
	f := NewOutputFormatter(format, quiet)
	f.useColor = ColorEnabled(noColor, os.Stdout)
	return f
}

// WithWriters redirects output, mainly for tests
func (f *OutputFormatter) WithWriters(out, errOut io.Writer) *OutputFormatter {
	f.out = out
	f.errOut = errOut
	return f
}

// PrintResponse prints a server parse response
func (f *OutputFormatter) PrintResponse(resp *document.ExtractionResponse) error {
	if f.quiet {
		fmt.Fprintln(f.out, resp.BLNumber())
		return nil
	}

	switch f.format {
	case "json":
		return f.encodeJSON(resp)
	case "table":
		return f.printResponseTable(resp)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintResult prints a locally computed extraction result
func (f *OutputFormatter) PrintResult(result parser.ExtractionResult) error {
	if f.quiet {
		fmt.Fprintln(f.out, result.BLNumber)
		return nil
	}

	switch f.format {
	case "json":
		return f.encodeJSON(result)
	case "table":
		return f.printResultTable(result)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintDecision prints the ranked candidates behind a BL decision
func (f *OutputFormatter) PrintDecision(d parser.Decision) error {
	if f.quiet {
		if bl, ok := d.BLNumber(); ok {
			fmt.Fprintln(f.out, bl)
		}
		return nil
	}

	switch f.format {
	case "json":
		return f.encodeJSON(d)
	case "table":
		return f.printDecisionTable(d)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintExtractions prints a page of the audit log
func (f *OutputFormatter) PrintExtractions(list *ExtractionList) error {
	if f.quiet {
		for _, e := range list.Extractions {
			fmt.Fprintf(f.out, "%d\n", e.ID)
		}
		return nil
	}

	switch f.format {
	case "json":
		return f.encodeJSON(list)
	case "table":
		return f.printExtractionsTable(list.Extractions, list.Total)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintSuccess prints a success message
func (f *OutputFormatter) PrintSuccess(message string) {
	if !f.quiet {
		fmt.Fprintln(f.out, f.style(successStyle, "✓ "+message))
	}
}

// PrintError prints an error message
func (f *OutputFormatter) PrintError(err error) {
	if !f.quiet {
		fmt.Fprintln(f.errOut, f.style(errorStyle, fmt.Sprintf("✗ Error: %v", err)))
	}
}

// PrintInfo prints an informational message
func (f *OutputFormatter) PrintInfo(message string) {
	if !f.quiet {
		fmt.Fprintf(f.out, "ℹ %s\n", message)
	}
}

func (f *OutputFormatter) encodeJSON(v any) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *OutputFormatter) style(s lipgloss.Style, text string) string {
	if !f.useColor {
		return text
	}
	return s.Render(text)
}

func (f *OutputFormatter) printField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%s\t%s\n", f.style(labelStyle, label+":"), f.style(valueStyle, value))
}

func (f *OutputFormatter) printResponseTable(resp *document.ExtractionResponse) error {
	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	f.printField(w, "Document Type", string(resp.DocumentType))
	f.printField(w, "BL Number", orDash(resp.BLNumber()))
	f.printField(w, "Confidence", fmt.Sprintf("%.2f", resp.Confidence))
	if resp.ExtractionID > 0 {
		f.printField(w, "Extraction ID", fmt.Sprintf("%d", resp.ExtractionID))
	}
	if resp.Cached {
		f.printField(w, "Cached", "yes")
	}

	if ex := resp.Extraction; ex != nil {
		f.printField(w, "Reason", ex.Reason)
		f.printField(w, "Vessel", ex.Vessel)
		f.printField(w, "Voyage", ex.Voyage)
		f.printField(w, "Shipper", ex.Shipper)
		f.printField(w, "Consignee", ex.Consignee)
		f.printField(w, "Port of Loading", ex.PortOfLoading)
		f.printField(w, "Port of Discharge", ex.PortOfDischarge)
		f.printField(w, "Containers", strings.Join(ex.Containers, ", "))
		f.printField(w, "Seals", strings.Join(ex.Seals, ", "))
		f.printField(w, "Weight", ex.Weight)
		f.printField(w, "Shipped On Board", ex.ShippedOnBoardDate)
	}

	for _, field := range resp.Fields {
		if field.Key == "bl_number" {
			continue
		}
		f.printField(w, field.Key, fmt.Sprintf("%s (%.2f)", field.Value, field.Confidence))
	}

	return nil
}

func (f *OutputFormatter) printResultTable(result parser.ExtractionResult) error {
	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	f.printField(w, "BL Number", orDash(result.BLNumber))
	if result.Found() {
		f.printField(w, "Confidence", fmt.Sprintf("%.2f", result.Confidence))
		f.printField(w, "Score", fmt.Sprintf("%d", result.Score))
	}
	f.printField(w, "Vessel", result.Vessel)
	f.printField(w, "Voyage", result.Voyage)
	f.printField(w, "Shipper", result.Shipper)
	f.printField(w, "Consignee", result.Consignee)
	f.printField(w, "Port of Loading", result.PortOfLoading)
	f.printField(w, "Port of Discharge", result.PortOfDischarge)
	f.printField(w, "Containers", strings.Join(result.Containers, ", "))
	f.printField(w, "Seals", strings.Join(result.Seals, ", "))
	f.printField(w, "Weight", result.Weight)
	f.printField(w, "Shipped On Board", result.ShippedOnBoardDate)

	return nil
}

func (f *OutputFormatter) printDecisionTable(d parser.Decision) error {
	verdict := "no BL number accepted (" + d.Reason + ")"
	if bl, ok := d.BLNumber(); ok {
		verdict = "accepted " + bl
	}
	fmt.Fprintf(f.out, "Decision: %s, margin %d\n\n", verdict, d.Margin)

	if len(d.Ranked) == 0 && len(d.Rejected) == 0 {
		fmt.Fprintln(f.out, "No candidates found.")
		return nil
	}

	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "RANK\tVALUE\tTIER\tSCORE\tREASONS")
	for i, c := range d.Ranked {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", i+1, c.Value, c.Tier, c.Score, strings.Join(c.Reasons, ","))
	}
	for _, c := range d.Rejected {
		fmt.Fprintf(w, "-\t%s\t%s\t%d\t%s\n", c.Value, c.Tier, c.Score, strings.Join(c.Reasons, ","))
	}

	return nil
}

func (f *OutputFormatter) printExtractionsTable(extractions []database.Extraction, total int) error {
	if len(extractions) == 0 {
		fmt.Fprintln(f.out, "No extractions found.")
		return nil
	}

	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tDOCUMENT\tTYPE\tBL NUMBER\tCONFIDENCE\tSOURCE\tCREATED")
	for _, e := range extractions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
			e.ID,
			truncate(orDash(e.DocumentID), 20),
			e.DocumentType,
			orDash(e.BLNumber),
			e.Confidence,
			e.Source,
			e.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "\n%d of %d shown\n", len(extractions), total)

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
