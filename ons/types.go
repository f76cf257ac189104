package ons

// LinkObject is a reference to a related API resource.
type LinkObject struct {
	ID   string `json:"id,omitempty"`
	HRef string `json:"href,omitempty"`
}

// Dataset is a point-in-time snapshot of a dataset's metadata. Fields mirror
// the API response; the client never caches or mutates them.
type Dataset struct {
	ID               string           `json:"id,omitempty"`
	Title            string           `json:"title,omitempty"`
	Description      string           `json:"description,omitempty"`
	State            string           `json:"state,omitempty"`
	Type             string           `json:"type,omitempty"`
	URI              string           `json:"uri,omitempty"`
	Keywords         []string         `json:"keywords,omitempty"`
	NextRelease      string           `json:"next_release,omitempty"`
	ReleaseFrequency string           `json:"release_frequency,omitempty"`
	QMI              *GeneralDetails  `json:"qmi,omitempty"`
	Methodologies    []GeneralDetails `json:"methodologies,omitempty"`
	Contacts         []ContactDetails `json:"contacts,omitempty"`
	Links            DatasetLinks     `json:"links,omitempty"`
	Dimensions       []Dimension      `json:"dimensions,omitempty"`
}

// DimensionList returns the dataset's dimensions, never nil.
func (d *Dataset) DimensionList() []Dimension {
	if d.Dimensions == nil {
		return []Dimension{}
	}
	return d.Dimensions
}

// DatasetLinks holds navigational links for a dataset
type DatasetLinks struct {
	Editions      LinkObject `json:"editions,omitempty"`
	LatestVersion LinkObject `json:"latest_version,omitempty"`
	Self          LinkObject `json:"self,omitempty"`
	Taxonomy      LinkObject `json:"taxonomy,omitempty"`
}

// GeneralDetails describes a supporting document such as a QMI or
// methodology page
type GeneralDetails struct {
	Description string `json:"description,omitempty"`
	HRef        string `json:"href,omitempty"`
	Title       string `json:"title,omitempty"`
}

// ContactDetails identifies who to ask about a dataset
type ContactDetails struct {
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Telephone string `json:"telephone,omitempty"`
}

// DatasetPage is one bounded window over the dataset collection.
type DatasetPage struct {
	Items      []Dataset `json:"items"`
	Count      int       `json:"count"`
	Offset     int       `json:"offset"`
	Limit      int       `json:"limit"`
	TotalCount int       `json:"total_count"`
}

// HasMore reports whether further pages exist beyond this window.
func (p *DatasetPage) HasMore() bool {
	return p.Offset+p.Count < p.TotalCount
}

// Dimension is a categorical axis along which a dataset's observations are
// sliced, e.g. geography or time.
type Dimension struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name,omitempty"`
	Label       string         `json:"label,omitempty"`
	Description string         `json:"description,omitempty"`
	Links       DimensionLinks `json:"links,omitempty"`
}

// DimensionLinks holds links related to a dimension, including its option
// set
type DimensionLinks struct {
	CodeList LinkObject `json:"code_list,omitempty"`
	Options  LinkObject `json:"options,omitempty"`
	Version  LinkObject `json:"version,omitempty"`
}

// DimensionOption is one selectable value on a dimension
type DimensionOption struct {
	DimensionID string `json:"dimension,omitempty"`
	Label       string `json:"label,omitempty"`
	Option      string `json:"option,omitempty"`
}

// DimensionOptionPage is one window over a dimension's option set
type DimensionOptionPage struct {
	Items      []DimensionOption `json:"items"`
	Count      int               `json:"count"`
	Offset     int               `json:"offset"`
	Limit      int               `json:"limit"`
	TotalCount int               `json:"total_count"`
}

// Version is a published version of a dataset edition
type Version struct {
	ID          string       `json:"id,omitempty"`
	Edition     string       `json:"edition,omitempty"`
	Version     int          `json:"version,omitempty"`
	ReleaseDate string       `json:"release_date,omitempty"`
	State       string       `json:"state,omitempty"`
	Downloads   *Downloads   `json:"downloads,omitempty"`
	Dimensions  []Dimension  `json:"dimensions,omitempty"`
	Links       VersionLinks `json:"links,omitempty"`
}

// CSVDownloadURL returns the CSV download link for this version, or the
// empty string when the version has no CSV download.
func (v *Version) CSVDownloadURL() string {
	if v.Downloads == nil || v.Downloads.CSV == nil {
		return ""
	}
	return v.Downloads.CSV.HRef
}

// Downloads lists the files available for a version
type Downloads struct {
	CSV  *Download `json:"csv,omitempty"`
	CSVW *Download `json:"csvw,omitempty"`
	XLS  *Download `json:"xls,omitempty"`
}

// Download describes a single downloadable file
type Download struct {
	HRef string `json:"href,omitempty"`
	Size string `json:"size,omitempty"`
}

// VersionLinks holds navigational links for a version
type VersionLinks struct {
	Dataset    LinkObject `json:"dataset,omitempty"`
	Dimensions LinkObject `json:"dimensions,omitempty"`
	Edition    LinkObject `json:"edition,omitempty"`
	Self       LinkObject `json:"self,omitempty"`
}

// Observations is the result of an observation query. TotalObservations is
// reported by the API and is not tied to len(Observations); the API may
// paginate independently.
type Observations struct {
	Dimensions        map[string]ObservationDimension `json:"dimensions,omitempty"`
	Limit             int                             `json:"limit,omitempty"`
	Links             *ObservationLinks               `json:"links,omitempty"`
	Observations      []Observation                   `json:"observations"`
	Offset            int                             `json:"offset,omitempty"`
	TotalObservations int                             `json:"total_observations,omitempty"`
	UnitOfMeasure     string                          `json:"unit_of_measure,omitempty"`
}

// ObservationDimension echoes the dimension selection used by the query
type ObservationDimension struct {
	LinkObject *LinkObject `json:"option,omitempty"`
}

// ObservationLinks holds navigational links for an observation result
type ObservationLinks struct {
	DatasetMetadata *LinkObject `json:"dataset_metadata,omitempty"`
	Self            *LinkObject `json:"self,omitempty"`
	Version         *LinkObject `json:"version,omitempty"`
}

// Observation is a single data point addressed by a combination of
// dimension values
type Observation struct {
	Dimensions  map[string]*DimensionItem `json:"dimensions,omitempty"`
	Metadata    map[string]string         `json:"metadata,omitempty"`
	Observation string                    `json:"observation"`
}

// DimensionItem is one dimension value attached to an observation
type DimensionItem struct {
	HRef  string `json:"href,omitempty"`
	ID    string `json:"id,omitempty"`
	Label string `json:"label,omitempty"`
}
