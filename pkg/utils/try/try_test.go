package try_test

import (
	"errors"
	"testing"

	"github.com/tigrlab/niviz-rater/pkg/utils/try"
)

type fatalRecorder struct {
	called bool
	args   []any
}

func (f *fatalRecorder) Fatal(args ...any) {
	f.called = true
	f.args = args
}

func TestTo(t *testing.T) {
	t.Run("ok Either passes its value through", func(t *testing.T) {
		testee := try.To(42, nil)

		v, err := testee.Get()
		if err != nil {
			t.Fatal("unexpected error:", err)
		}
		if v != 42 {
			t.Error("unexpected value:", v)
		}
		if got := testee.OrDefault(-1); got != 42 {
			t.Error("OrDefault should return the value itself, got:", got)
		}

		f := &fatalRecorder{}
		if got := testee.OrFatal(f); got != 42 {
			t.Error("OrFatal should return the value itself, got:", got)
		}
		if f.called {
			t.Error("OrFatal should not call Fatal for ok Either")
		}
	})

	t.Run("ng Either carries its error", func(t *testing.T) {
		expected := errors.New("expected error")
		testee := try.To(0, expected)

		if _, err := testee.Get(); !errors.Is(err, expected) {
			t.Error("Get should return the error, got:", err)
		}
		if got := testee.OrDefault(-1); got != -1 {
			t.Error("OrDefault should return the default, got:", got)
		}

		f := &fatalRecorder{}
		testee.OrFatal(f)
		if !f.called {
			t.Error("OrFatal should call Fatal for ng Either")
		}
	})
}
