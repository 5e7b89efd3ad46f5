package results

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName    = "Interview"
	defaultSheet = "Sheet1"
	fontFamily   = "Calibri"
)

var answerHeaders = []string{"ID", "Category", "Question", "Answer", "Score", "Feedback"}

// WriteXLSX writes a spreadsheet report of record to path.
func WriteXLSX(path string, record Record) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	f.SetSheetName(defaultSheet, sheetName)

	row, err := writeHeader(f, sheetName, 0, answerHeaders)
	if err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	if len(record.QuestionsAndAnswers) > 0 {
		if err := applyDataCellStyle(f, sheetName, 1, row+1, len(answerHeaders), row+len(record.QuestionsAndAnswers)); err != nil {
			return fmt.Errorf("style report rows: %w", err)
		}
	}

	for _, qa := range record.QuestionsAndAnswers {
		row++
		values := []any{qa.QuestionID, string(qa.QuestionCategory), qa.Question, qa.Answer, qa.Score, qa.Feedback}
		for col, value := range values {
			if err := writeColumn(f, sheetName, col+1, row, value); err != nil {
				return fmt.Errorf("write report row %d: %w", row, err)
			}
		}
	}

	summary := record.InterviewSummary
	lines := [][2]any{
		{"Candidate", record.CandidateInfo.Name},
		{"Position", record.CandidateInfo.Position},
		{"Status", string(summary.InterviewStatus)},
		{"Answers", fmt.Sprintf("%d / %d", summary.TotalAnswers, summary.TotalQuestions)},
		{"Total score", summary.TotalScore},
		{"Average score", summary.AverageScore},
		{"Percentage", summary.Percentage},
		{"Terminated early", summary.TerminatedEarly},
	}

	row++
	for _, line := range lines {
		row++
		if err := writeColumn(f, sheetName, 1, row, line[0]); err != nil {
			return fmt.Errorf("write report summary: %w", err)
		}
		if err := writeColumn(f, sheetName, 2, row, line[1]); err != nil {
			return fmt.Errorf("write report summary: %w", err)
		}
	}

	return f.SaveAs(path)
}

func writeColumn(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string) (int, error) {
	row++
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Family: fontFamily, Size: 11},
	})
	if err != nil {
		return row, err
	}

	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return row, err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return row, err
	}
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return row, err
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return row, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 30); err != nil {
		return row, err
	}

	for idx, value := range headers {
		if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
			return row, err
		}
	}
	return row, nil
}

func applyDataCellStyle(f *excelize.File, sheet string, colFrom, rowFrom, colTo, rowTo int) error {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Font:      &excelize.Font{Family: fontFamily, Size: 11},
	})
	if err != nil {
		return err
	}

	first, err := excelize.CoordinatesToCellName(colFrom, rowFrom)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
