package ons

// PopularDataset identifies a commonly requested dataset.
type PopularDataset struct {
	ID    string
	Title string
}

// popularDatasets is a curated shortlist of frequently used datasets.
var popularDatasets = []PopularDataset{
	{ID: "cpih01", Title: "Consumer Prices Index including owner occupiers' housing costs (CPIH)"},
	{ID: "mid-year-pop-est", Title: "Population estimates for the UK"},
	{ID: "trade", Title: "UK trade in goods by country and commodity"},
	{ID: "regional-gdp-by-quarter", Title: "Quarterly GDP for the regions of the UK"},
	{ID: "weekly-deaths-region", Title: "Weekly deaths by region in England and Wales"},
	{ID: "wellbeing-quarterly", Title: "Quarterly personal well-being estimates"},
	{ID: "ashe-tables-7-and-8", Title: "Annual Survey of Hours and Earnings"},
	{ID: "life-expectancy-by-local-authority", Title: "Life expectancy by local authority"},
	{ID: "suicides-in-the-uk", Title: "Suicides in the UK"},
	{ID: "uk-business-by-enterprises-and-local-units", Title: "UK business counts by enterprise and local unit"},
}

// PopularDatasets returns the curated dataset shortlist. No network call is
// made; the returned slice is a copy and may be reordered freely.
func PopularDatasets() []PopularDataset {
	out := make([]PopularDataset, len(popularDatasets))
	copy(out, popularDatasets)
	return out
}
