package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tigrlab/niviz-rater/pkg/configs/rater"
	"github.com/tigrlab/niviz-rater/pkg/db/mocks"
	"github.com/tigrlab/niviz-rater/pkg/utils/cmp"
	"github.com/tigrlab/niviz-rater/pkg/utils/try"
)

func TestInitializeAll(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	conf := try.To(rater.Unmarshal([]byte(`
OPT_freesurfer_long:
    base_dir: /no/such/dir
    qc_spec: /no/such/spec.yaml
SPINS_fmriprep:
    base_dir: /no/such/dir
    qc_spec: /no/such/spec.yaml
`))).OrFatal(t)

	t.Run("a failing pipeline is skipped and the rest are initialized", func(t *testing.T) {
		attempted := []string{}
		exitCode := initializeAll(
			logger, conf, conf.Keys(),
			func(key rater.PipelineKey, pipeline rater.PipelineConfig) error {
				attempted = append(attempted, key.String())
				if key.Study == "OPT" {
					return errors.New("fake error")
				}
				return nil
			},
		)

		if exitCode != 1 {
			t.Errorf("unmatch exit code: got %d, expected 1", exitCode)
		}
		if !cmp.SliceEq(attempted, []string{"OPT_freesurfer_long", "SPINS_fmriprep"}) {
			t.Errorf("not all pipelines are attempted: %v", attempted)
		}
	})

	t.Run("exit code is 0 when every pipeline succeeds", func(t *testing.T) {
		exitCode := initializeAll(
			logger, conf, conf.Keys(),
			func(rater.PipelineKey, rater.PipelineConfig) error { return nil },
		)
		if exitCode != 0 {
			t.Errorf("unmatch exit code: got %d, expected 0", exitCode)
		}
	})
}

func TestInitializePipeline(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)
	key := rater.PipelineKey{Study: "SPINS", Pipeline: "fmriprep"}

	t.Run("a missing base_dir is an error before anything is registered", func(t *testing.T) {
		registry := mocks.NewRegistry()
		pipeline := rater.PipelineConfig{
			BaseDir: filepath.Join(t.TempDir(), "no-such-dir"),
			QCSpec:  filepath.Join(t.TempDir(), "no-such-spec.yaml"),
		}

		err := initializePipeline(ctx, logger, "postgres://unused/", key, pipeline, registry)
		if err == nil {
			t.Fatal("error expected, but not raised")
		}
		if !strings.Contains(err.Error(), "base_dir") {
			t.Errorf("error does not name base_dir: %s", err)
		}
		if registry.Calls.Register.Times() != 0 {
			t.Error("Register is called for a pipeline that was not initialized")
		}
	})

	t.Run("a missing qc_spec is an error before anything is registered", func(t *testing.T) {
		registry := mocks.NewRegistry()
		pipeline := rater.PipelineConfig{
			BaseDir: t.TempDir(),
			QCSpec:  filepath.Join(t.TempDir(), "no-such-spec.yaml"),
		}

		err := initializePipeline(ctx, logger, "postgres://unused/", key, pipeline, registry)
		if err == nil {
			t.Fatal("error expected, but not raised")
		}
		if !strings.Contains(err.Error(), "qc_spec") {
			t.Errorf("error does not name qc_spec: %s", err)
		}
		if registry.Calls.Register.Times() != 0 {
			t.Error("Register is called for a pipeline that was not initialized")
		}
	})

	t.Run("an invalid qc_spec is an error before anything is registered", func(t *testing.T) {
		registry := mocks.NewRegistry()
		specPath := filepath.Join(t.TempDir(), "spec.yaml")
		if err := os.WriteFile(specPath, []byte("ImageExtensions: []\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		pipeline := rater.PipelineConfig{BaseDir: t.TempDir(), QCSpec: specPath}

		err := initializePipeline(ctx, logger, "postgres://unused/", key, pipeline, registry)
		if err == nil {
			t.Fatal("error expected, but not raised")
		}
		if registry.Calls.Register.Times() != 0 {
			t.Error("Register is called for a pipeline that was not initialized")
		}
	})
}
