package qcspec

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/tigrlab/niviz-rater/pkg/bids"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Placeholders lists the entity names referenced by a ${entity} template.
func Placeholders(tpl string) []string {
	names := []string{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(tpl, -1) {
		if m[1] != "" {
			names = append(names, m[1])
		} else {
			names = append(names, m[2])
		}
	}
	return names
}

// Validate checks a spec against an entity configuration.
//
// All violations are reported at once, joined into a single error.
func Validate(spec *Spec, entities *bids.Config) error {
	problems := []error{}
	complain := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if len(spec.ImageExtensions) == 0 {
		complain(`"ImageExtensions" is empty`)
	}

	rd := spec.RowDescription
	if rd.Name == "" {
		complain(`"RowDescription.name" is missing`)
	}
	if len(rd.Entities) == 0 {
		complain(`"RowDescription.entities" is empty`)
	}
	for _, e := range rd.Entities {
		if !entities.Has(e) {
			complain(`RowDescription: unknown entity %q`, e)
		}
	}
	for _, p := range Placeholders(rd.Name) {
		if !contains(rd.Entities, p) {
			complain(`RowDescription.name refers to %q, which is not in its entities`, p)
		}
	}

	if len(spec.Components) == 0 {
		complain(`"Components" is empty`)
	}
	for i, c := range spec.Components {
		where := fmt.Sprintf("Components[%d]", i)
		if c.Name != "" {
			where = fmt.Sprintf("component %q", c.Name)
		} else {
			complain(`%s: "name" is missing`, where)
		}

		if c.Column == "" {
			complain(`%s: "column" is missing`, where)
		}
		if len(c.Entities) == 0 {
			complain(`%s: "entities" is empty`, where)
		}
		for _, e := range c.Entities {
			if !entities.Has(e) {
				complain(`%s: unknown entity %q`, where, e)
			}
		}
		if len(c.Images) == 0 {
			complain(`%s: "images" is empty`, where)
		}
		for j, descriptor := range c.Images {
			for k := range descriptor {
				if !entities.Has(k) {
					complain(`%s: images[%d]: unknown entity %q`, where, j, k)
				}
			}
		}
		if len(c.Ratings) == 0 {
			complain(`%s: "ratings" is empty`, where)
		}

		for _, tpl := range []string{c.Name, c.Column} {
			for _, p := range Placeholders(tpl) {
				if !contains(c.Entities, p) {
					complain(`%s: template refers to %q, which is not in its entities`, where, p)
				}
			}
		}
	}

	return errors.Join(problems...)
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
