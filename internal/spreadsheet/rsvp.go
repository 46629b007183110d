package spreadsheet

import (
	"wedding-site/internal/models"
)

// RSVPHeaders is the header row of the RSVP workbook and export.
// The seat notifier reads columns A, B, C, F and K by position.
var RSVPHeaders = []string{
	"First Name",
	"Last Name",
	"Contact Phone",
	"Email",
	"Is Primary Contact",
	"Attending",
	"Dietary Restrictions",
	"Song Request",
	"Message",
	"Submitted At",
	"Seat Number",
}

const timestampLayout = "2006-01-02 15:04:05"

// RSVPRows flattens RSVPs into one row per primary contact followed by one row per guest
func RSVPRows(rsvps []models.RSVP) [][]string {
	var rows [][]string
	for i := range rsvps {
		r := &rsvps[i]
		label := r.Attendance.Label()
		submitted := r.SubmittedAt.Format(timestampLayout)

		rows = append(rows, []string{
			r.FirstName,
			r.LastName,
			r.Phone,
			r.Email,
			"Yes",
			label,
			r.DietaryRestrictions,
			r.SongRequest,
			r.Message,
			submitted,
			"",
		})

		for j := range r.Guests {
			g := &r.Guests[j]
			rows = append(rows, []string{
				g.FirstName,
				g.LastName,
				g.ContactPhone(r.Phone),
				"",
				"No",
				label,
				"",
				"",
				"",
				submitted,
				"",
			})
		}
	}
	return rows
}

// BuildRSVPWorkbook renders every RSVP and guest into a styled xlsx file
func BuildRSVPWorkbook(rsvps []models.RSVP) ([]byte, error) {
	rows := RSVPRows(rsvps)
	cells := make([][]any, len(rows))
	for i, row := range rows {
		cells[i] = make([]any, len(row))
		for j, v := range row {
			cells[i][j] = v
		}
	}

	return sheet{
		name:   "RSVPs",
		header: RSVPHeaders,
		rows:   cells,
		style:  rsvpHeaderStyle,
	}.build()
}
