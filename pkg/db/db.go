// Package db defines the storage interfaces of niviz-rater.
//
// Each pipeline key owns a dedicated database holding its QC index;
// a shared registry database records which pipelines are initialized.
// Implementations live under pkg/db/postgres, mocks under pkg/db/mocks.
package db

import "context"

// Component is one rated unit, created per QC spec component.
type Component struct {
	Id int
}

// Rating is a named rating choice offered by a component.
type Rating struct {
	Id          int
	Name        string
	ComponentId int
}

// Entity is a single thing to QC: one cell of the spreadsheet.
type Entity struct {
	Id          int
	Name        string
	RowName     string
	ColumnName  string
	ComponentId int
	Comment     string

	// Failed is nil while the entity is unrated.
	Failed *bool

	// RatingId is nil while no named rating is chosen.
	RatingId *int
}

// Status renders the tri-state Failed flag for display.
func (e Entity) Status() string {
	switch {
	case e.Failed == nil:
		return ""
	case *e.Failed:
		return "Fail"
	default:
		return "Pass"
	}
}

// EntityDetail is an Entity with its images and rating choices resolved.
type EntityDetail struct {
	Entity

	// RatingName is "" when no rating is chosen.
	RatingName string

	// Images are the paths of the images backing this entity.
	Images []string

	// AvailableRatings are the choices of the entity's component.
	AvailableRatings []Rating
}

// RatingUpdate is a partial update of an entity's rating state.
// Nil fields are left untouched.
type RatingUpdate struct {
	RatingId *int
	Failed   *bool
	Comment  *string
}

// Summary is the headline counters of one pipeline's index.
type Summary struct {
	Unrated  int
	Rows     int
	Columns  int
	Entities int
}

// Cell is an entity as shown in the spreadsheet.
type Cell struct {
	EntityId   int
	Name       string
	ColumnName string
	Rating     string
	Status     string
	Comment    string
}

// Row is one spreadsheet row; cells are ordered by column name.
type Row struct {
	Name  string
	Cells []Cell
}

// Spreadsheet is the whole rated view of a pipeline.
type Spreadsheet struct {
	Columns []string
	Rows    []Row
}

// SchemaInterface prepares a pipeline database.
type SchemaInterface interface {
	// Ensure creates the index tables when absent.
	Ensure(ctx context.Context) error
}

// IndexInterface writes the QC index during initialization.
type IndexInterface interface {
	// AddComponent creates a component and returns its id.
	AddComponent(ctx context.Context) (int, error)

	// AddRatings registers the named ratings of a component.
	AddRatings(ctx context.Context, componentId int, names []string) error

	// EnsureRows registers row names, ignoring already-known ones.
	EnsureRows(ctx context.Context, names []string) error

	// EnsureColumns registers column names, ignoring already-known ones.
	EnsureColumns(ctx context.Context, names []string) error

	// AddEntity creates an entity and returns its id.
	AddEntity(ctx context.Context, entity Entity) (int, error)

	// AddImages attaches image paths to an entity.
	AddImages(ctx context.Context, entityId int, paths []string) error
}

// EntityInterface serves and updates the rated view.
type EntityInterface interface {
	Summary(ctx context.Context) (Summary, error)

	Spreadsheet(ctx context.Context) (Spreadsheet, error)

	// Get returns the detail of a single entity.
	//
	// When the entity does not exist, it returns ErrMissing.
	Get(ctx context.Context, id int) (EntityDetail, error)

	// RatingOf resolves a rating by name within an entity's component.
	//
	// When no such rating exists, it returns ErrMissing.
	RatingOf(ctx context.Context, entityId int, name string) (Rating, error)

	// UpdateRating applies a partial rating update.
	//
	// When the entity does not exist, it returns ErrMissing.
	UpdateRating(ctx context.Context, id int, update RatingUpdate) error
}

// RaterDatabase is the handle on one pipeline's database.
type RaterDatabase interface {
	Schema() SchemaInterface
	Index() IndexInterface
	Entities() EntityInterface
	Close()
}

// Registry records initialized pipelines in the shared database.
type Registry interface {
	// Register upserts a pipeline registration.
	Register(ctx context.Context, study string, pipeline string, displayName string) error

	Close()
}
