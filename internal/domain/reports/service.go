package reports

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"rtw/internal/domain/rtw"
)

// Service renders audit-ready PDF summaries of right to work checks.
type Service struct{}

func New() *Service {
	return &Service{}
}

// WriteCheckPDF renders a single check to w.
func (s *Service) WriteCheckPDF(w io.Writer, check rtw.Check, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Right to Work Check Record")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, value, "", "L", false)
	}

	line("Name", check.FullName)
	line("Date of birth", formatDate(check.DateOfBirth))
	line("Check date", formatDate(check.CheckDate))
	line("Check type", check.CheckType)
	line("Check method", check.CheckMethod)
	switch check.CheckMethod {
	case rtw.CheckMethodOnline:
		line("Share code", check.ShareCode)
	case rtw.CheckMethodIDSP:
		line("IDSP provider", check.IDSPProvider)
	}
	line("Documents", strings.Join(check.DocumentTokens, ", "))
	line("Status", string(check.Status))
	line("Expiry date", formatDate(check.ExpiryDate))
	line("Follow-up due", formatDate(check.FollowUpDate))
	line("Employment start", formatDate(check.EmploymentStartDate))
	line("Employment end", formatDate(check.EmploymentEndDate))
	line("Deletion due", formatDate(check.DeletionDueDate))

	if len(check.VerificationAnswers) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Verification questions")
		pdf.Ln(9)
		keys := make([]string, 0, len(check.VerificationAnswers))
		for key := range check.VerificationAnswers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			line(key, check.VerificationAnswers[key])
		}
	}

	if check.DeclarationConfirmed {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, fmt.Sprintf("Declaration confirmed by %s.", check.DeclaredBy), "", "L", false)
	}
	if check.Notes != "" {
		line("Notes", check.Notes)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", generatedAt.UTC().Format("2006-01-02 15:04 MST")))

	return pdf.Output(w)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
