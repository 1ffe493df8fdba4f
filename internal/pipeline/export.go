package pipeline

import (
	"github.com/KaramelBytes/sosdash/internal/workbook"
)

func (v Value) cell() any {
	switch v.Kind {
	case KindInt:
		return v.I
	case KindFloat:
		return v.F
	case KindString:
		return v.S
	case KindTime:
		return v.T
	}
	return nil
}

// Sheets renders the cleaned dataset and its summaries for xlsx export.
func (d *Dataset) Sheets() []workbook.Sheet {
	cols := d.Columns()
	clients := workbook.Sheet{Name: SheetClients, Header: cols}
	for i := range d.Clients {
		row := make([]any, len(cols))
		for j, col := range cols {
			v, _ := d.Clients[i].Field(col)
			row[j] = v.cell()
		}
		clients.Rows = append(clients.Rows, row)
	}

	club := workbook.Sheet{Name: "Club Hours", Header: []string{ColSchool, ColHours, ColClub}}
	for _, sh := range d.ClubHours {
		club.Rows = append(club.Rows, []any{sh.School, sh.Hours, sh.Club})
	}

	quarters := workbook.Sheet{Name: "Quarterly Volunteers", Header: []string{"QTR", "Active Volunteers"}}
	for _, b := range d.Quarters {
		quarters.Rows = append(quarters.Rows, []any{b.Period, b.Volunteers})
	}

	months := workbook.Sheet{Name: "Monthly Volunteers", Header: []string{"Month", "Active Volunteers"}}
	for _, b := range d.Months {
		months.Rows = append(months.Rows, []any{b.Period, b.Volunteers})
	}
	return []workbook.Sheet{clients, club, quarters, months}
}
