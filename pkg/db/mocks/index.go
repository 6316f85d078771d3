package mocks

import (
	"context"
	"errors"

	kdb "github.com/tigrlab/niviz-rater/pkg/db"
)

type IndexInterface struct {
	Impl struct {
		AddComponent  func(context.Context) (int, error)
		AddRatings    func(context.Context, int, []string) error
		EnsureRows    func(context.Context, []string) error
		EnsureColumns func(context.Context, []string) error
		AddEntity     func(context.Context, kdb.Entity) (int, error)
		AddImages     func(context.Context, int, []string) error
	}
	Calls struct {
		AddComponent CallLog[struct{}]
		AddRatings   CallLog[struct {
			ComponentId int
			Names       []string
		}]
		EnsureRows    CallLog[struct{ Names []string }]
		EnsureColumns CallLog[struct{ Names []string }]
		AddEntity     CallLog[struct{ Entity kdb.Entity }]
		AddImages     CallLog[struct {
			EntityId int
			Paths    []string
		}]
	}
}

func NewIndexInterface() *IndexInterface {
	return &IndexInterface{}
}

var _ kdb.IndexInterface = &IndexInterface{}

func (m *IndexInterface) AddComponent(ctx context.Context) (int, error) {
	m.Calls.AddComponent = append(m.Calls.AddComponent, struct{}{})
	if m.Impl.AddComponent != nil {
		return m.Impl.AddComponent(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *IndexInterface) AddRatings(ctx context.Context, componentId int, names []string) error {
	m.Calls.AddRatings = append(m.Calls.AddRatings, struct {
		ComponentId int
		Names       []string
	}{ComponentId: componentId, Names: names})
	if m.Impl.AddRatings != nil {
		return m.Impl.AddRatings(ctx, componentId, names)
	}
	panic(errors.New("it should not be called"))
}

func (m *IndexInterface) EnsureRows(ctx context.Context, names []string) error {
	m.Calls.EnsureRows = append(m.Calls.EnsureRows, struct{ Names []string }{Names: names})
	if m.Impl.EnsureRows != nil {
		return m.Impl.EnsureRows(ctx, names)
	}
	panic(errors.New("it should not be called"))
}

func (m *IndexInterface) EnsureColumns(ctx context.Context, names []string) error {
	m.Calls.EnsureColumns = append(m.Calls.EnsureColumns, struct{ Names []string }{Names: names})
	if m.Impl.EnsureColumns != nil {
		return m.Impl.EnsureColumns(ctx, names)
	}
	panic(errors.New("it should not be called"))
}

func (m *IndexInterface) AddEntity(ctx context.Context, entity kdb.Entity) (int, error) {
	m.Calls.AddEntity = append(m.Calls.AddEntity, struct{ Entity kdb.Entity }{Entity: entity})
	if m.Impl.AddEntity != nil {
		return m.Impl.AddEntity(ctx, entity)
	}
	panic(errors.New("it should not be called"))
}

func (m *IndexInterface) AddImages(ctx context.Context, entityId int, paths []string) error {
	m.Calls.AddImages = append(m.Calls.AddImages, struct {
		EntityId int
		Paths    []string
	}{EntityId: entityId, Paths: paths})
	if m.Impl.AddImages != nil {
		return m.Impl.AddImages(ctx, entityId, paths)
	}
	panic(errors.New("it should not be called"))
}
