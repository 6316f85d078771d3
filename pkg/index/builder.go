// Package index builds the QC index of a pipeline: it turns the
// scanned image files into rated entities per the pipeline's QC spec.
package index

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/tigrlab/niviz-rater/pkg/bids"
	kdb "github.com/tigrlab/niviz-rater/pkg/db"
	xe "github.com/tigrlab/niviz-rater/pkg/errors"
	"github.com/tigrlab/niviz-rater/pkg/qcspec"
)

// QCEntity is one rated unit found in the scanned files.
type QCEntity struct {
	// Images are the matched image paths, in descriptor order.
	Images []string

	// Entities are the grouping entity values.
	Entities map[string]string

	// Name is the expanded display name.
	Name string

	// ColumnName is the expanded spreadsheet column.
	ColumnName string
}

// ExpandTemplate substitutes ${entity} references with entity values.
func ExpandTemplate(tpl string, entities map[string]string) string {
	return os.Expand(tpl, func(name string) string {
		return entities[name]
	})
}

// RowName names the spreadsheet row an entity belongs to.
func RowName(rd qcspec.RowDescription, entities map[string]string) string {
	keys := map[string]string{}
	for _, e := range rd.Entities {
		keys[e] = entities[e]
	}
	return ExpandTemplate(rd.Name, keys)
}

// BuildEntities groups files by a component's entities and matches its
// image descriptors within each group.
//
// A descriptor matching no file drops it with a log; matching more
// than one file is an error. Groups with no matched image at all are
// skipped.
func BuildEntities(
	component qcspec.Component,
	files []bids.File,
	logger *log.Logger,
) ([]QCEntity, error) {

	groups := map[string][]bids.File{}
	for _, f := range files {
		if !f.HasEntities(component.Entities) {
			continue
		}
		groups[groupKey(f, component.Entities)] = append(
			groups[groupKey(f, component.Entities)], f,
		)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	qcEntities := []QCEntity{}
	for _, k := range keys {
		group := groups[k]

		matched := []string{}
		for _, descriptor := range component.Images {
			m, err := findMatch(group, descriptor)
			if err != nil {
				return nil, err
			}
			if m == nil {
				logger.Printf("found 0 matches for %v in group %v", descriptor, k)
				continue
			}
			matched = append(matched, m.Path)
		}
		if len(matched) == 0 {
			continue
		}

		entities := map[string]string{}
		for _, e := range component.Entities {
			entities[e] = group[0].Entities[e]
		}
		qcEntities = append(qcEntities, QCEntity{
			Images:     matched,
			Entities:   entities,
			Name:       ExpandTemplate(component.Name, entities),
			ColumnName: ExpandTemplate(component.Column, entities),
		})
	}
	return qcEntities, nil
}

func findMatch(group []bids.File, descriptor map[string]string) (*bids.File, error) {
	matches := []bids.File{}
	for _, f := range group {
		if f.MatchesDescriptor(descriptor) {
			matches = append(matches, f)
		}
	}
	if 1 < len(matches) {
		paths := make([]string, len(matches))
		for i, m := range matches {
			paths[i] = m.Path
		}
		return nil, xe.New(fmt.Sprintf(
			"got %d matches for %v, expected 1:\n%s",
			len(matches), descriptor, strings.Join(paths, "\n"),
		))
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func groupKey(f bids.File, entities []string) string {
	values := make([]string, len(entities))
	for i, e := range entities {
		values[i] = f.Entities[e]
	}
	return strings.Join(values, "\x00")
}

// Build writes the whole QC index of a pipeline.
func Build(
	ctx context.Context,
	idx kdb.IndexInterface,
	spec *qcspec.Spec,
	files []bids.File,
	logger *log.Logger,
) error {
	for _, component := range spec.Components {
		qcEntities, err := BuildEntities(component, files, logger)
		if err != nil {
			return err
		}

		componentId, err := idx.AddComponent(ctx)
		if err != nil {
			return err
		}
		if err := idx.AddRatings(ctx, componentId, component.Ratings); err != nil {
			return err
		}

		rowNames := uniqueSorted(qcEntities, func(e QCEntity) string {
			return RowName(spec.RowDescription, e.Entities)
		})
		if err := idx.EnsureRows(ctx, rowNames); err != nil {
			return err
		}
		columnNames := uniqueSorted(qcEntities, func(e QCEntity) string {
			return e.ColumnName
		})
		if err := idx.EnsureColumns(ctx, columnNames); err != nil {
			return err
		}

		for _, e := range qcEntities {
			entityId, err := idx.AddEntity(ctx, kdb.Entity{
				Name:        e.Name,
				RowName:     RowName(spec.RowDescription, e.Entities),
				ColumnName:  e.ColumnName,
				ComponentId: componentId,
			})
			if err != nil {
				return err
			}
			if err := idx.AddImages(ctx, entityId, e.Images); err != nil {
				return err
			}
		}
	}
	return nil
}

func uniqueSorted(entities []QCEntity, name func(QCEntity) string) []string {
	seen := map[string]struct{}{}
	names := []string{}
	for _, e := range entities {
		n := name(e)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
