package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/tigrlab/niviz-rater/pkg/api/types/errors"
	apiqc "github.com/tigrlab/niviz-rater/pkg/api/types/qc"
)

// GetSummaryHandler serves the headline counters of a pipeline.
func GetSummaryHandler(resolve Resolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		entities, ok := resolve(c.Param("study"), c.Param("pipeline"))
		if !ok {
			return apierr.NotFound()
		}

		summary, err := entities.Summary(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiqc.ComposeSummary(summary))
	}
}
