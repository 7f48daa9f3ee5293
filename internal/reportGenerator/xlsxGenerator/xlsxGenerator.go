package xlsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/extrol_cli/internal/model"
	"github.com/KotFed0t/extrol_cli/utils"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Entries"

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate builds a one-sheet report: the four aggregates on top, then
// the full entry table sorted the way the caller passed it in.
func (g *XLSXGenerator) Generate(ctx context.Context, entries []model.Entry, stats model.Stats) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	if len(entries) == 0 {
		return nil, "", errors.New("no entries to export")
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("entries", len(entries)))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if _, err := f.NewSheet(sheetName); err != nil {
		slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := g.fillSheet(f, entries, stats); err != nil {
		slog.Error("got error while filling sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillSheet(f *excelize.File, entries []model.Entry, stats model.Stats) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#DDEBF7"},
			Pattern: 1,
		},
	})
	if err != nil {
		return err
	}

	// summary block
	summary := [][]any{
		{"Total spent", stats.Total.StringFixed(2)},
		{"Entries", stats.Count},
		{"Average price", stats.Average.StringFixed(2)},
		{"Last refill", stats.LastRefillDate},
	}
	for i, row := range summary {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "A4", headerStyle); err != nil {
		return err
	}

	// entries table
	tableStart := len(summary) + 2
	header := []any{"Date", "Price", "Note"}
	if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", tableStart), &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", tableStart), fmt.Sprintf("C%d", tableStart), headerStyle); err != nil {
		return err
	}

	for i, e := range entries {
		price, _ := e.Price.Float64()
		row := []any{e.Date, price, e.Note}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", tableStart+1+i), &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheetName, "A", "C", 18)
}
