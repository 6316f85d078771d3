package handlers

import (
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	apierr "github.com/tigrlab/niviz-rater/pkg/api/types/errors"
)

// GetImageHandler serves an image file from a pipeline's base_dir.
//
// The path query parameter is relative to base_dir; requests escaping
// it are rejected.
func GetImageHandler(resolveBase BaseDirResolver) echo.HandlerFunc {
	return func(c echo.Context) error {
		baseDir, ok := resolveBase(c.Param("study"), c.Param("pipeline"))
		if !ok {
			return apierr.NotFound()
		}

		rel := c.QueryParam("path")
		if rel == "" {
			return apierr.BadRequest(`set the image path in the "path" query parameter`, nil)
		}

		full := filepath.Join(baseDir, filepath.FromSlash(rel))
		resolved, err := filepath.Abs(full)
		if err != nil {
			return apierr.BadRequest("image path is not resolvable", err)
		}
		root, err := filepath.Abs(baseDir)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if resolved != root && !strings.HasPrefix(resolved, root+string(filepath.Separator)) {
			return apierr.BadRequest("image path escapes the pipeline data directory", nil)
		}

		return c.File(resolved)
	}
}
