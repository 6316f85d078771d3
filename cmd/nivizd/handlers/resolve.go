package handlers

import (
	kdb "github.com/tigrlab/niviz-rater/pkg/db"
)

// Resolver maps a study/pipeline path pair onto its database.
//
// The pair must name a configured pipeline key; unknown pairs
// resolve to false and the handlers answer 404.
type Resolver func(study string, pipeline string) (kdb.EntityInterface, bool)

// BaseDirResolver maps a study/pipeline path pair onto the pipeline's
// base_dir, for serving image files.
type BaseDirResolver func(study string, pipeline string) (string, bool)
