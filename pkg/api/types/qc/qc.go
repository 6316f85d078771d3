// Package qc holds the JSON payloads of the rater API.
package qc

import (
	kdb "github.com/tigrlab/niviz-rater/pkg/db"
)

// Summary mirrors the headline counters of the original dashboard view.
type Summary struct {
	NumberOfUnrated  int `json:"numberOfUnrated"`
	NumberOfRows     int `json:"numberOfRows"`
	NumberOfColumns  int `json:"numberOfColumns"`
	NumberOfEntities int `json:"numberOfEntities"`
}

func ComposeSummary(s kdb.Summary) Summary {
	return Summary{
		NumberOfUnrated:  s.Unrated,
		NumberOfRows:     s.Rows,
		NumberOfColumns:  s.Columns,
		NumberOfEntities: s.Entities,
	}
}

type Cell struct {
	Id      int    `json:"id"`
	Name    string `json:"name"`
	Column  string `json:"column"`
	Rating  string `json:"rating"`
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type Row struct {
	Name  string `json:"name"`
	Cells []Cell `json:"cells"`
}

type Spreadsheet struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func ComposeSpreadsheet(s kdb.Spreadsheet) Spreadsheet {
	rows := make([]Row, 0, len(s.Rows))
	for _, r := range s.Rows {
		cells := make([]Cell, 0, len(r.Cells))
		for _, c := range r.Cells {
			cells = append(cells, Cell{
				Id:      c.EntityId,
				Name:    c.Name,
				Column:  c.ColumnName,
				Rating:  c.Rating,
				Status:  c.Status,
				Comment: c.Comment,
			})
		}
		rows = append(rows, Row{Name: r.Name, Cells: cells})
	}
	return Spreadsheet{Columns: s.Columns, Rows: rows}
}

type EntityDetail struct {
	Id               int      `json:"id"`
	Name             string   `json:"name"`
	Row              string   `json:"row"`
	Column           string   `json:"column"`
	Rating           string   `json:"rating"`
	Status           string   `json:"status"`
	Comment          string   `json:"comment"`
	Images           []string `json:"images"`
	AvailableRatings []string `json:"availableRatings"`
}

func ComposeEntityDetail(d kdb.EntityDetail) EntityDetail {
	ratings := make([]string, 0, len(d.AvailableRatings))
	for _, r := range d.AvailableRatings {
		ratings = append(ratings, r.Name)
	}
	return EntityDetail{
		Id:               d.Id,
		Name:             d.Name,
		Row:              d.RowName,
		Column:           d.ColumnName,
		Rating:           d.RatingName,
		Status:           d.Status(),
		Comment:          d.Comment,
		Images:           d.Images,
		AvailableRatings: ratings,
	}
}

// RatingChange is a partial rating update sent by a rater.
// Nil fields are left untouched.
type RatingChange struct {
	Rating  *string `json:"rating"`
	Failed  *bool   `json:"failed"`
	Comment *string `json:"comment"`
}
