package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apierr "github.com/tigrlab/niviz-rater/pkg/api/types/errors"
	apiqc "github.com/tigrlab/niviz-rater/pkg/api/types/qc"
)

// GetSpreadsheetHandler serves the rated view of a pipeline.
func GetSpreadsheetHandler(resolve Resolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		entities, ok := resolve(c.Param("study"), c.Param("pipeline"))
		if !ok {
			return apierr.NotFound()
		}

		sheet, err := entities.Spreadsheet(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiqc.ComposeSpreadsheet(sheet))
	}
}

// GetExportHandler serves the rated view as CSV.
func GetExportHandler(resolve Resolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		study := c.Param("study")
		pipeline := c.Param("pipeline")
		entities, ok := resolve(study, pipeline)
		if !ok {
			return apierr.NotFound()
		}

		sheet, err := entities.Spreadsheet(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		out := &strings.Builder{}
		w := csv.NewWriter(out)
		if err := w.Write([]string{"row", "column", "entity", "rating", "status", "comment"}); err != nil {
			return apierr.InternalServerError(err)
		}
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				record := []string{
					row.Name, cell.ColumnName, cell.Name,
					cell.Rating, cell.Status, cell.Comment,
				}
				if err := w.Write(record); err != nil {
					return apierr.InternalServerError(err)
				}
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return apierr.InternalServerError(err)
		}

		c.Response().Header().Set(
			echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="%s_%s.csv"`, study, pipeline),
		)
		return c.Blob(http.StatusOK, "text/csv", []byte(out.String()))
	}
}
