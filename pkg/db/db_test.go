package db_test

import (
	"testing"

	kdb "github.com/tigrlab/niviz-rater/pkg/db"
	"github.com/tigrlab/niviz-rater/pkg/utils/pointer"
)

func TestEntityStatus(t *testing.T) {
	for name, testcase := range map[string]struct {
		failed   *bool
		expected string
	}{
		"unrated": {failed: nil, expected: ""},
		"passed":  {failed: pointer.Ref(false), expected: "Pass"},
		"failed":  {failed: pointer.Ref(true), expected: "Fail"},
	} {
		t.Run(name, func(t *testing.T) {
			e := kdb.Entity{Failed: testcase.failed}
			if got := e.Status(); got != testcase.expected {
				t.Errorf("unmatch status: got %q, expected %q", got, testcase.expected)
			}
		})
	}
}
