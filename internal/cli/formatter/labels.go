package formatter

// Labels are the headings used in terminal output.
type Labels struct {
	Session  string
	History  string
	Overview string
	Worker   string
	Kg       string
	Rate     string
	Total    string
	Date     string
	Workers  string
	Amount   string
	Days     string
	Added    string
	Share    string
	Empty    string
}

// English is the default label set.
var English = Labels{
	Session:  "Today's Session",
	History:  "History",
	Overview: "Overview",
	Worker:   "Worker",
	Kg:       "KG",
	Rate:     "Rate",
	Total:    "Total",
	Date:     "Date",
	Workers:  "Workers",
	Amount:   "Amount",
	Days:     "Days",
	Added:    "Added",
	Share:    "Share of KG",
	Empty:    "No entries yet.",
}

// Bilingual pairs every English heading with its Hindi form.
var Bilingual = Labels{
	Session:  "Today's Session / आज का सत्र",
	History:  "History / इतिहास",
	Overview: "Overview / सारांश",
	Worker:   "Worker / कामगार",
	Kg:       "KG / किलो",
	Rate:     "Rate / दर",
	Total:    "Total / कुल",
	Date:     "Date / तारीख",
	Workers:  "Workers / कामगार",
	Amount:   "Amount / राशि",
	Days:     "Days / दिन",
	Added:    "Added / जोड़ा",
	Share:    "Share / हिस्सा",
	Empty:    "No entries yet. / अभी कोई प्रविष्टि नहीं।",
}

// LabelsFor returns the bilingual set when bilingual is true.
func LabelsFor(bilingual bool) Labels {
	if bilingual {
		return Bilingual
	}
	return English
}
