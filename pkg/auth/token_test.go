package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	httptestutil "github.com/tigrlab/niviz-rater/internal/testutils/http"
	"github.com/tigrlab/niviz-rater/pkg/auth"
	"github.com/tigrlab/niviz-rater/pkg/utils/try"
)

func TestIssueAndVerify(t *testing.T) {
	secret := []byte("test-secret")

	t.Run("a fresh token verifies and carries the rater name", func(t *testing.T) {
		token := try.To(auth.Issue(secret, "jwong", time.Hour)).OrFatal(t)

		rater, err := auth.Verify(secret, token)
		if err != nil {
			t.Fatal("unexpected error:", err)
		}
		if rater != "jwong" {
			t.Error("unmatch rater:", rater)
		}
	})

	t.Run("a token signed with another secret is rejected", func(t *testing.T) {
		token := try.To(auth.Issue([]byte("other-secret"), "jwong", time.Hour)).OrFatal(t)

		if _, err := auth.Verify(secret, token); err == nil {
			t.Fatal("error expected, but not raised")
		}
	})

	t.Run("an expired token is rejected", func(t *testing.T) {
		token := try.To(auth.Issue(secret, "jwong", -time.Minute)).OrFatal(t)

		if _, err := auth.Verify(secret, token); err == nil {
			t.Fatal("error expected, but not raised")
		}
	})

	t.Run("two tokens for the same rater differ", func(t *testing.T) {
		a := try.To(auth.Issue(secret, "jwong", time.Hour)).OrFatal(t)
		b := try.To(auth.Issue(secret, "jwong", time.Hour)).OrFatal(t)
		if a == b {
			t.Error("tokens should carry unique ids")
		}
	})
}

func TestBearerAuth(t *testing.T) {
	secret := []byte("test-secret")

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(auth.RaterContextKey).(string))
	}

	t.Run("a request with a valid token passes", func(t *testing.T) {
		e := echo.New()
		token := try.To(auth.Issue(secret, "jwong", time.Hour)).OrFatal(t)
		ctx, resp := httptestutil.Get(
			e, "/", httptestutil.WithHeader("Authorization", "Bearer "+token),
		)

		testee := auth.BearerAuth(secret)(handler)
		if err := testee(ctx); err != nil {
			t.Fatal("unexpected error:", err)
		}
		if resp.Code != http.StatusOK {
			t.Error("unmatch status:", resp.Code)
		}
		if resp.Body.String() != "jwong" {
			t.Error("rater name should be set in context, got:", resp.Body.String())
		}
	})

	t.Run("a request without token is unauthorized", func(t *testing.T) {
		e := echo.New()
		ctx, _ := httptestutil.Get(e, "/")

		testee := auth.BearerAuth(secret)(handler)
		err := testee(ctx)
		if err == nil {
			t.Fatal("error expected, but not raised")
		}
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusUnauthorized {
			t.Error("unmatch error:", err)
		}
	})

	t.Run("a request with a garbage token is unauthorized", func(t *testing.T) {
		e := echo.New()
		ctx, _ := httptestutil.Get(
			e, "/", httptestutil.WithHeader("Authorization", "Bearer not.a.token"),
		)

		testee := auth.BearerAuth(secret)(handler)
		err := testee(ctx)
		if err == nil {
			t.Fatal("error expected, but not raised")
		}
		if httperr, ok := err.(*echo.HTTPError); !ok || httperr.Code != http.StatusUnauthorized {
			t.Error("unmatch error:", err)
		}
	})
}
