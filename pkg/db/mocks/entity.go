package mocks

import (
	"context"
	"errors"

	kdb "github.com/tigrlab/niviz-rater/pkg/db"
)

type EntityInterface struct {
	Impl struct {
		Summary      func(context.Context) (kdb.Summary, error)
		Spreadsheet  func(context.Context) (kdb.Spreadsheet, error)
		Get          func(context.Context, int) (kdb.EntityDetail, error)
		RatingOf     func(context.Context, int, string) (kdb.Rating, error)
		UpdateRating func(context.Context, int, kdb.RatingUpdate) error
	}
	Calls struct {
		Summary     CallLog[struct{}]
		Spreadsheet CallLog[struct{}]
		Get         CallLog[struct{ Id int }]
		RatingOf    CallLog[struct {
			EntityId int
			Name     string
		}]
		UpdateRating CallLog[struct {
			Id     int
			Update kdb.RatingUpdate
		}]
	}
}

func NewEntityInterface() *EntityInterface {
	return &EntityInterface{}
}

var _ kdb.EntityInterface = &EntityInterface{}

func (m *EntityInterface) Summary(ctx context.Context) (kdb.Summary, error) {
	m.Calls.Summary = append(m.Calls.Summary, struct{}{})
	if m.Impl.Summary != nil {
		return m.Impl.Summary(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *EntityInterface) Spreadsheet(ctx context.Context) (kdb.Spreadsheet, error) {
	m.Calls.Spreadsheet = append(m.Calls.Spreadsheet, struct{}{})
	if m.Impl.Spreadsheet != nil {
		return m.Impl.Spreadsheet(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *EntityInterface) Get(ctx context.Context, id int) (kdb.EntityDetail, error) {
	m.Calls.Get = append(m.Calls.Get, struct{ Id int }{Id: id})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *EntityInterface) RatingOf(ctx context.Context, entityId int, name string) (kdb.Rating, error) {
	m.Calls.RatingOf = append(m.Calls.RatingOf, struct {
		EntityId int
		Name     string
	}{EntityId: entityId, Name: name})
	if m.Impl.RatingOf != nil {
		return m.Impl.RatingOf(ctx, entityId, name)
	}
	panic(errors.New("it should not be called"))
}

func (m *EntityInterface) UpdateRating(ctx context.Context, id int, update kdb.RatingUpdate) error {
	m.Calls.UpdateRating = append(m.Calls.UpdateRating, struct {
		Id     int
		Update kdb.RatingUpdate
	}{Id: id, Update: update})
	if m.Impl.UpdateRating != nil {
		return m.Impl.UpdateRating(ctx, id, update)
	}
	panic(errors.New("it should not be called"))
}
