package mocks

import (
	"context"
	"errors"

	kdb "github.com/tigrlab/niviz-rater/pkg/db"
)

type Registry struct {
	Impl struct {
		Register func(context.Context, string, string, string) error
	}
	Calls struct {
		Register CallLog[struct {
			Study       string
			Pipeline    string
			DisplayName string
		}]
	}
}

func NewRegistry() *Registry {
	return &Registry{}
}

var _ kdb.Registry = &Registry{}

func (m *Registry) Register(ctx context.Context, study string, pipeline string, displayName string) error {
	m.Calls.Register = append(m.Calls.Register, struct {
		Study       string
		Pipeline    string
		DisplayName string
	}{Study: study, Pipeline: pipeline, DisplayName: displayName})
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, study, pipeline, displayName)
	}
	panic(errors.New("it should not be called"))
}

func (m *Registry) Close() {}
