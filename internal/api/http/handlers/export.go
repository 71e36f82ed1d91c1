package handlers

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/leave-service/internal/domain"
)

const (
	requestsSheet = "Pending requests"
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var requestsHeader = []any{"Request ID", "Staff ID", "Date", "Time Slot", "Type", "Reason", "Status", "Created At"}

// buildRequestsWorkbook returns an open workbook the caller must Close. It closes the file
// itself when it fails.
func buildRequestsWorkbook(requests []domain.Request) (_ *excelize.File, err error) {
	f := excelize.NewFile()
	defer closeOnError(f, &err)

	if err := f.SetSheetName("Sheet1", requestsSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(requestsSheet, "A1", &requestsHeader); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(requestsSheet, "A1", "H1", style); err != nil {
		return nil, err
	}

	for i, r := range requests {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			r.RequestID,
			r.StaffID,
			r.Date.Format("2006-01-02"),
			r.TimeSlot,
			r.RequestType,
			r.Reason,
			r.Status.String(),
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(requestsSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(requestsSheet, "F", "F", 40); err != nil {
		return nil, err
	}
	return f, nil
}

func closeOnError(c io.Closer, err *error) {
	if *err != nil {
		_ = c.Close()
	}
}

func writeRequestsWorkbook(c *fiber.Ctx, requests []domain.Request) error {
	f, err := buildRequestsWorkbook(requests)
	if err != nil {
		return err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}
	fileName := fmt.Sprintf("team_requests_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, xlsxMIME)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+fileName)
	return c.Send(buf.Bytes())
}
