package pipeline

import (
	"github.com/KaramelBytes/sosdash/internal/workbook"
)

// RawData is the uncleaned content of an upload.
type RawData struct {
	Clients *workbook.Table
	Hours   *workbook.Table
	Survey  *workbook.Table // nil when the workbook has no survey sheet
}

var requiredClientCols = []string{ColGalaxyID, ColAgeAtSignUp, ColSchool, ColZip, ColHours}

var requiredHoursCols = []string{ColGalaxyID, ColEventDate, ColEventHrs}

// Extract validates a workbook and pulls out the sheets the pipeline reads.
// Every missing sheet and column is reported in one *workbook.IngestionError.
func Extract(wb *workbook.Workbook) (*RawData, error) {
	if err := wb.RequireSheets(SheetClients, SheetHours); err != nil {
		return nil, err
	}
	clients, err := wb.Table(SheetClients)
	if err != nil {
		return nil, err
	}
	hours, err := wb.Table(SheetHours)
	if err != nil {
		return nil, err
	}
	hours.Rename(ColUserID, ColGalaxyID)

	problems := &workbook.IngestionError{File: wb.Name}
	if err := clients.RequireColumns(requiredClientCols...); err != nil {
		problems.Merge(err.(*workbook.IngestionError))
	}
	if err := hours.RequireColumns(requiredHoursCols...); err != nil {
		problems.Merge(err.(*workbook.IngestionError))
	}
	if len(problems.MissingColumns) > 0 {
		return nil, problems
	}

	raw := &RawData{Clients: clients, Hours: hours}
	if name, ok := wb.FirstSheet(SurveySheets...); ok {
		if raw.Survey, err = wb.Table(name); err != nil {
			return nil, err
		}
	}
	return raw, nil
}
