package spreadsheet

// LocationHeaders is the column set shared by the location template and the importers
var LocationHeaders = []string{
	"location_name",
	"city",
	"state_country",
	"latitude",
	"longitude",
	"description",
	"date_visited",
	"significance",
	"order",
	"is_active",
	"photo_filename",
}

var locationWidths = []float64{30, 20, 20, 12, 12, 50, 20, 40, 10, 10, 25}

var locationSamples = [][]any{
	{"West Virginia University", "Morgantown", "West Virginia", 39.6498, -79.9545,
		"Where we met as classmates and fell in love.", "2018-2022",
		"The place where our story began", 1, true, "wvu.jpg"},
	{"The Aviary", "Pittsburgh", "Pennsylvania", 40.4406, -79.9959,
		"Our home city where we built our life together.", "2022-Present",
		"Where we chose to build our future", 2, true, "aviary.jpg"},
}

// BuildLocationTemplate creates the location import template with two sample rows
func BuildLocationTemplate() ([]byte, error) {
	return sheet{
		name:   "Locations",
		header: LocationHeaders,
		rows:   locationSamples,
		style:  locationHeaderStyle,
		widths: locationWidths,
	}.build()
}
