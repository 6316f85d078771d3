package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apierr "github.com/tigrlab/niviz-rater/pkg/api/types/errors"
	apiqc "github.com/tigrlab/niviz-rater/pkg/api/types/qc"
	kdb "github.com/tigrlab/niviz-rater/pkg/db"
)

// GetEntityHandler serves the detail of a single entity.
func GetEntityHandler(resolve Resolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		entities, ok := resolve(c.Param("study"), c.Param("pipeline"))
		if !ok {
			return apierr.NotFound()
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return apierr.BadRequest("entity id should be an integer", err)
		}

		detail, err := entities.Get(ctx, id)
		if errors.Is(err, kdb.ErrMissing) {
			return apierr.NotFound()
		}
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiqc.ComposeEntityDetail(detail))
	}
}

// PostEntityHandler applies a rating update and returns the new detail.
func PostEntityHandler(resolve Resolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		entities, ok := resolve(c.Param("study"), c.Param("pipeline"))
		if !ok {
			return apierr.NotFound()
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return apierr.BadRequest("entity id should be an integer", err)
		}

		change := apiqc.RatingChange{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&change); err != nil {
			return apierr.BadRequest(
				`body should be JSON with fields "rating", "failed" and/or "comment"`, err,
			)
		}

		update := kdb.RatingUpdate{Failed: change.Failed, Comment: change.Comment}
		if change.Rating != nil {
			if *change.Rating == "" {
				return apierr.BadRequest("rating should be a non-empty rating name", nil)
			}
			rating, err := entities.RatingOf(ctx, id, *change.Rating)
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.BadRequest(
					"rating "+*change.Rating+" is not offered for this entity", err,
				)
			}
			if err != nil {
				return apierr.InternalServerError(err)
			}
			update.RatingId = &rating.Id
		}

		if err := entities.UpdateRating(ctx, id, update); errors.Is(err, kdb.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		detail, err := entities.Get(ctx, id)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apiqc.ComposeEntityDetail(detail))
	}
}
