// Package export writes lead lists as XLSX workbooks for outreach campaigns.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/abdulwasay100/leadcrm/internal/models"
	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{"ID", "Full name", "Email", "Phone", "Age", "City", "Country", "Course", "Source", "Status", "Created"}

// maxSheetName is Excel's sheet name limit.
const maxSheetName = 31

// Leads writes one sheet named after the group with a header row and one row per lead.
func Leads(w io.Writer, sheet string, leads []*models.Lead) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet = sheetName(sheet)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, l := range leads {
		age := ""
		if l.Age != nil {
			age = strconv.Itoa(*l.Age)
		}
		row := []any{l.LeadID, l.FullName, l.Email, l.Phone, age, l.City, l.Country,
			l.InterestedCourse, l.InquirySource, string(l.LeadStatus), l.CreatedAt.Format("2006-01-02")}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write lead %d: %w", l.LeadID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetName strips characters Excel rejects and truncates to the length limit.
func sheetName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
	}
	if len(out) > maxSheetName {
		out = out[:maxSheetName]
	}
	if len(out) == 0 {
		return "Leads"
	}
	return string(out)
}
