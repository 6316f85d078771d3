package index_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/tigrlab/niviz-rater/pkg/bids"
	kdb "github.com/tigrlab/niviz-rater/pkg/db"
	dbmock "github.com/tigrlab/niviz-rater/pkg/db/mocks"
	"github.com/tigrlab/niviz-rater/pkg/index"
	"github.com/tigrlab/niviz-rater/pkg/qcspec"
	"github.com/tigrlab/niviz-rater/pkg/utils/cmp"
)

func silent() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func file(path string, entities map[string]string) bids.File {
	return bids.File{Path: path, Entities: entities}
}

func TestBuildEntities(t *testing.T) {

	component := qcspec.Component{
		Name:     "${subject} Anatomical",
		Column:   "Anatomical",
		Entities: []string{"subject", "session"},
		Images: []map[string]string{
			{"description": "brain", "suffix": "T1w"},
		},
		Ratings: []string{"Pass", "Fail"},
	}

	t.Run("files are grouped by entities and matched per descriptor", func(t *testing.T) {
		files := []bids.File{
			file("sub-A/anat.svg", map[string]string{
				"subject": "A", "session": "01", "description": "brain", "suffix": "T1w",
			}),
			file("sub-B/anat.svg", map[string]string{
				"subject": "B", "session": "01", "description": "brain", "suffix": "T1w",
			}),
			file("sub-B/bold.svg", map[string]string{
				"subject": "B", "session": "01", "description": "carpetplot", "suffix": "bold",
			}),
		}

		result, err := index.BuildEntities(component, files, silent())
		if err != nil {
			t.Fatal("unexpected error:", err)
		}

		if len(result) != 2 {
			t.Fatalf("unmatch number of entities: %d, expected 2", len(result))
		}
		if result[0].Name != "A Anatomical" || result[1].Name != "B Anatomical" {
			t.Errorf("unmatch names: %s, %s", result[0].Name, result[1].Name)
		}
		if !cmp.SliceEq(result[0].Images, []string{"sub-A/anat.svg"}) {
			t.Error("unmatch images of first entity:", result[0].Images)
		}
		if !cmp.SliceEq(result[1].Images, []string{"sub-B/anat.svg"}) {
			t.Error("unmatch images of second entity:", result[1].Images)
		}
	})

	t.Run("files missing a grouping entity are left out", func(t *testing.T) {
		files := []bids.File{
			file("dataset_description.json", map[string]string{}),
			file("sub-A/anat.svg", map[string]string{
				"subject": "A", "session": "01", "description": "brain", "suffix": "T1w",
			}),
		}

		result, err := index.BuildEntities(component, files, silent())
		if err != nil {
			t.Fatal("unexpected error:", err)
		}
		if len(result) != 1 {
			t.Fatalf("unmatch number of entities: %d, expected 1", len(result))
		}
	})

	t.Run("a group where no descriptor matches yields no entity", func(t *testing.T) {
		files := []bids.File{
			file("sub-A/bold.svg", map[string]string{
				"subject": "A", "session": "01", "description": "carpetplot", "suffix": "bold",
			}),
		}

		result, err := index.BuildEntities(component, files, silent())
		if err != nil {
			t.Fatal("unexpected error:", err)
		}
		if len(result) != 0 {
			t.Error("no entity expected, got:", result)
		}
	})

	t.Run("more than one match per descriptor is an error", func(t *testing.T) {
		files := []bids.File{
			file("sub-A/anat-1.svg", map[string]string{
				"subject": "A", "session": "01", "description": "brain", "suffix": "T1w",
			}),
			file("sub-A/anat-2.svg", map[string]string{
				"subject": "A", "session": "01", "description": "brain", "suffix": "T1w",
			}),
		}

		if _, err := index.BuildEntities(component, files, silent()); err == nil {
			t.Fatal("error expected, but not raised")
		}
	})
}

func TestExpandTemplate(t *testing.T) {
	entities := map[string]string{"subject": "CMH0001", "session": "01"}

	for name, testcase := range map[string]struct {
		tpl      string
		expected string
	}{
		"braced":  {tpl: "${subject}_${session}", expected: "CMH0001_01"},
		"bare":    {tpl: "$subject QC", expected: "CMH0001 QC"},
		"missing": {tpl: "${subject}_${run}", expected: "CMH0001_"},
	} {
		t.Run(name, func(t *testing.T) {
			if got := index.ExpandTemplate(testcase.tpl, entities); got != testcase.expected {
				t.Errorf("unmatch: got %q, expected %q", got, testcase.expected)
			}
		})
	}
}

func TestBuild(t *testing.T) {

	spec := &qcspec.Spec{
		ImageExtensions: []string{".svg"},
		RowDescription: qcspec.RowDescription{
			Name:     "${subject}_${session}",
			Entities: []string{"subject", "session"},
		},
		Components: []qcspec.Component{
			{
				Name:     "${subject} Anatomical",
				Column:   "Anatomical",
				Entities: []string{"subject", "session"},
				Images:   []map[string]string{{"description": "brain"}},
				Ratings:  []string{"Pass", "Fail"},
			},
		},
	}

	files := []bids.File{
		file("sub-A/anat.svg", map[string]string{
			"subject": "A", "session": "01", "description": "brain",
		}),
		file("sub-B/anat.svg", map[string]string{
			"subject": "B", "session": "02", "description": "brain",
		}),
	}

	t.Run("it writes components, ratings, rows, columns, entities and images", func(t *testing.T) {
		idx := dbmock.NewIndexInterface()
		idx.Impl.AddComponent = func(context.Context) (int, error) { return 7, nil }
		idx.Impl.AddRatings = func(context.Context, int, []string) error { return nil }
		idx.Impl.EnsureRows = func(context.Context, []string) error { return nil }
		idx.Impl.EnsureColumns = func(context.Context, []string) error { return nil }
		nextEntity := 100
		idx.Impl.AddEntity = func(context.Context, kdb.Entity) (int, error) {
			nextEntity++
			return nextEntity, nil
		}
		idx.Impl.AddImages = func(context.Context, int, []string) error { return nil }

		if err := index.Build(context.Background(), idx, spec, files, silent()); err != nil {
			t.Fatal("unexpected error:", err)
		}

		if idx.Calls.AddComponent.Times() != 1 {
			t.Error("AddComponent should be called once per component")
		}
		if idx.Calls.AddRatings.Times() != 1 || idx.Calls.AddRatings[0].ComponentId != 7 {
			t.Error("AddRatings should be called with the new component id")
		}
		if !cmp.SliceEq(idx.Calls.EnsureRows[0].Names, []string{"A_01", "B_02"}) {
			t.Error("unmatch row names:", idx.Calls.EnsureRows[0].Names)
		}
		if !cmp.SliceEq(idx.Calls.EnsureColumns[0].Names, []string{"Anatomical"}) {
			t.Error("unmatch column names:", idx.Calls.EnsureColumns[0].Names)
		}

		if idx.Calls.AddEntity.Times() != 2 {
			t.Fatal("AddEntity should be called per QC entity")
		}
		first := idx.Calls.AddEntity[0].Entity
		if first.Name != "A Anatomical" || first.RowName != "A_01" ||
			first.ColumnName != "Anatomical" || first.ComponentId != 7 {
			t.Errorf("unmatch first entity: %+v", first)
		}

		if idx.Calls.AddImages.Times() != 2 {
			t.Fatal("AddImages should be called per QC entity")
		}
		if idx.Calls.AddImages[0].EntityId != 101 {
			t.Error("AddImages should use the id returned by AddEntity:", idx.Calls.AddImages[0])
		}
		if !cmp.SliceEq(idx.Calls.AddImages[0].Paths, []string{"sub-A/anat.svg"}) {
			t.Error("unmatch image paths:", idx.Calls.AddImages[0].Paths)
		}
	})

	t.Run("a component with no matched group writes no entity", func(t *testing.T) {
		idx := dbmock.NewIndexInterface()
		idx.Impl.AddComponent = func(context.Context) (int, error) { return 1, nil }
		idx.Impl.AddRatings = func(context.Context, int, []string) error { return nil }
		idx.Impl.EnsureRows = func(context.Context, []string) error { return nil }
		idx.Impl.EnsureColumns = func(context.Context, []string) error { return nil }

		noMatch := []bids.File{
			file("sub-A/bold.svg", map[string]string{
				"subject": "A", "session": "01", "description": "carpetplot",
			}),
		}

		if err := index.Build(context.Background(), idx, spec, noMatch, silent()); err != nil {
			t.Fatal("unexpected error:", err)
		}
		if idx.Calls.AddEntity.Times() != 0 {
			t.Error("AddEntity should not be called")
		}
	})
}
