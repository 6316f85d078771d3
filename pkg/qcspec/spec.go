// Package qcspec reads the QC spec of a pipeline.
//
// A QC spec is a YAML file declaring which images make up each rated
// component, how QC entities are named, and which ratings a rater can
// choose from.
package qcspec

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is a parsed QC spec.
type Spec struct {
	// ImageExtensions lists the file extensions indexed under base_dir.
	ImageExtensions []string `yaml:"ImageExtensions"`

	// RowDescription declares how spreadsheet rows are named.
	RowDescription RowDescription `yaml:"RowDescription"`

	// Components are the rated units of the pipeline.
	Components []Component `yaml:"Components"`
}

// RowDescription names spreadsheet rows from entity values.
//
// Name is a ${entity} template; Entities lists the entities a row
// identity is built from.
type RowDescription struct {
	Name     string   `yaml:"name"`
	Entities []string `yaml:"entities"`
}

// Component declares one rated unit.
type Component struct {
	// Name is a ${entity} template for the QC entity display name.
	Name string `yaml:"name"`

	// Column is a ${entity} template for the spreadsheet column.
	Column string `yaml:"column"`

	// Entities are the entities a QC entity is grouped by.
	Entities []string `yaml:"entities"`

	// Images are entity descriptors; each selects one image per group.
	Images []map[string]string `yaml:"images"`

	// Ratings are the named ratings offered for this component.
	Ratings []string `yaml:"ratings"`
}

// Load reads a QC spec from a YAML file. It does not validate; see Validate.
func Load(path string) (*Spec, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

// Unmarshal parses QC spec content. Unknown fields are rejected.
func Unmarshal(content []byte) (*Spec, error) {
	spec := &Spec{}
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(spec); err != nil {
		return nil, err
	}
	return spec, nil
}
