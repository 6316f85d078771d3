package try

// something having a method `Fatal`.
//
// For example in standard libraries: *testing.T, log.Logger
type Fataler interface {
	Fatal(...any)
}

// Wrapper of a (value, error) pair.
//
// When the error is nil the Either is "ok" and the value is valid.
// Otherwise the value must not be used.
type Either[T any] interface {

	// Get returns the (value, error) pair as-is.
	Get() (T, error)

	// OrFatal returns the value when the Either is "ok".
	//
	// Otherwise it calls ftl.Fatal(err). If ftl has a Helper()
	// method (like *testing.T), that is called first.
	OrFatal(ftl Fataler) T

	// OrDefault returns the value, or the given default on error.
	OrDefault(T) T
}

// To wraps a (value, error) pair into an Either.
func To[T any](ok T, ng error) Either[T] {
	if ng == nil {
		return tryOk[T]{ok}
	}
	return tryNg[T]{ng}
}

type tryOk[T any] struct {
	value T
}

type tryNg[T any] struct {
	err error
}

func (ok tryOk[T]) Get() (T, error) {
	return ok.value, nil
}

func (ng tryNg[T]) Get() (T, error) {
	return *new(T), ng.err
}

func (ok tryOk[T]) OrDefault(T) T {
	return ok.value
}

func (ng tryNg[T]) OrDefault(d T) T {
	return d
}

func (ok tryOk[T]) OrFatal(Fataler) T {
	return ok.value
}

func (ng tryNg[T]) OrFatal(ftl Fataler) T {
	if hlp, ok := ftl.(interface{ Helper() }); ok {
		hlp.Helper() // think *testing.T
	}
	ftl.Fatal(ng.err)

	return *new(T)
}
