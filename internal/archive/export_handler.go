package archive

import (
	"fmt"

	"hotelstock-backend/internal/database"
	"hotelstock-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/admin/weekly-snapshots/export?week=5&year=2026
// Streams one period's snapshot as an xlsx workbook.
func ExportSnapshotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		week := c.QueryInt("week")
		year := c.QueryInt("year")
		if week < 1 || week > 53 || year < 1000 {
			return fiber.NewError(fiber.StatusBadRequest, "week (1-53) and year are required")
		}

		var snapshots []models.WeeklySnapshot
		if err := database.DB.
			Where("week = ? AND year = ?", week, year).
			Order("category ASC, label ASC").
			Find(&snapshots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load snapshots")
		}
		if len(snapshots) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "No snapshot for this period")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := fmt.Sprintf("Week %d-%d", week, year)
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build workbook")
		}

		header := []any{"Item", "Category", "Label", "Quantity", "Date"}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build workbook")
		}
		for i, s := range snapshots {
			row := []any{s.ItemID, s.Category, s.Label, s.Quantity, s.Date.Format("2006-01-02")}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build workbook")
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write workbook")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="stock-week-%d-%d.xlsx"`, week, year))
		return c.Send(buf.Bytes())
	}
}
