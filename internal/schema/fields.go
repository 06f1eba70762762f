// Package schema defines the manifest field dictionary: the closed set of
// canonical record fields, the CSV headers they are sourced from, and the
// per-field normalization and override rules applied during mapping.
package schema

// Delimiter separates sub-values inside a single manifest cell.
const Delimiter = "|~|"

// Canonical field names. Attribute keys on mapped records use these values.
const (
	FieldArk              = "ark"
	FieldTitle            = "title"
	FieldSubject          = "subject"
	FieldDescription      = "description"
	FieldResourceType     = "resource_type"
	FieldLatitude         = "latitude"
	FieldLongitude        = "longitude"
	FieldExtent           = "extent"
	FieldLocalIdentifier  = "local_identifier"
	FieldDateCreated      = "date_created"
	FieldCaption          = "caption"
	FieldDimensions       = "dimensions"
	FieldFundingNote      = "funding_note"
	FieldGenre            = "genre"
	FieldRightsHolder     = "rights_holder"
	FieldRightsCountry    = "rights_country"
	FieldRightsStatement  = "rights_statement"
	FieldMedium           = "medium"
	FieldNormalizedDate   = "normalized_date"
	FieldPublisher        = "publisher"
	FieldRepository       = "repository"
	FieldLocation         = "location"
	FieldNamedSubject     = "named_subject"
	FieldLanguage         = "language"
	FieldPhotographer     = "photographer"
	FieldDlcsCollection   = "dlcs_collection_name"
	FieldServicesContact  = "services_contact"
)

// Structural headers carry routing information rather than record metadata.
const (
	HeaderItemArk     = "Item Ark"
	HeaderTitle       = "Title"
	HeaderFileName    = "File Name"
	HeaderParentArk   = "Parent ARK"
	HeaderProjectName = "Project Name"
	HeaderObjectType  = "Object Type"
)

// Field binds a canonical field name to its manifest source header.
type Field struct {
	Name   string // canonical field name
	Header string // manifest column header
}

// Fields is the ordered field dictionary: canonical field -> source header.
// Order here is the order attributes appear on mapped records and the order
// controlled-vocabulary warnings are reported in.
var Fields = []Field{
	{FieldArk, HeaderItemArk},
	{FieldTitle, HeaderTitle},
	{FieldSubject, "Subject"},
	{FieldDescription, "Description.note"},
	{FieldResourceType, "Type.typeOfResource"},
	{FieldLatitude, "Description.latitude"},
	{FieldLongitude, "Description.longitude"},
	{FieldExtent, "Format.extent"},
	{FieldLocalIdentifier, "AltIdentifier.local"},
	{FieldDateCreated, "Date.creation"},
	{FieldCaption, "Description.caption"},
	{FieldDimensions, "Format.dimensions"},
	{FieldFundingNote, "Description.fundingNote"},
	{FieldGenre, "Type.genre"},
	{FieldRightsHolder, "Rights.rightsHolderContact"},
	{FieldRightsCountry, "Rights.countryCreation"},
	{FieldRightsStatement, "Rights.copyrightStatus"},
	{FieldMedium, "Format.medium"},
	{FieldNormalizedDate, "Date.normalized"},
	{FieldPublisher, "Publisher.publisherName"},
	{FieldRepository, "Name.repository"},
	{FieldLocation, "Coverage.geographic"},
	{FieldNamedSubject, "Name.subject"},
	{FieldLanguage, "Language"},
	{FieldPhotographer, "Name.photographer"},
	{FieldDlcsCollection, "Relation.isPartOf"},
	{FieldServicesContact, "Rights.servicesContact"},
}

// HeaderFor returns the manifest header for a canonical field name.
// Returns false for names outside the dictionary.
func HeaderFor(name string) (string, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f.Header, true
		}
	}
	return "", false
}

// RequiredHeaders must exist in every manifest.
func RequiredHeaders() []string {
	return []string{HeaderTitle, HeaderItemArk}
}

// AllowedHeaders is the full set of headers a manifest may carry: every
// dictionary source header plus the structural columns. Anything else is
// ignored with a warning.
func AllowedHeaders() []string {
	headers := make([]string, 0, len(Fields)+4)
	for _, f := range Fields {
		headers = append(headers, f.Header)
	}
	return append(headers, HeaderFileName, HeaderParentArk, HeaderProjectName, HeaderObjectType)
}

// MarkerReplacement says what a bibliographic subfield marker (a MARC-style
// " $x " token) collapses to for fields that carry them.
// Subject headings keep their subdivision structure as double dashes; name
// fields flatten to a single space.
var MarkerReplacement = map[string]string{
	FieldSubject:      "--",
	FieldNamedSubject: " ",
	FieldPhotographer: " ",
	FieldRepository:   " ",
}

// Override replaces mapped field values wholesale for rows belonging to a
// specific project. New overrides are table entries, not code changes.
type Override map[string][]string

// ProjectOverrides is keyed by the manifest's Project Name value.
// The Los Angeles Daily News Negatives collection ships un-normalized
// extent/repository/language data, so those fields are pinned.
var ProjectOverrides = map[string]Override{
	"Los Angeles Daily News Negatives": {
		FieldExtent:     {"1 photograph"},
		FieldRepository: {"University of California, Los Angeles. Library. Department of Special Collections"},
		FieldLanguage:   {"No linguistic content"},
	},
}

// VocabularyFields maps a canonical field to the authority subauthority
// that controls its values. Validation checks these; mapping resolves
// labels to term IDs where a match exists.
var VocabularyFields = map[string]string{
	FieldRightsStatement: "rights_statements",
}

// DefaultRightsStatement fills rows whose Rights.copyrightStatus cell is
// blank, matching what the validator's advisory promises.
const DefaultRightsStatement = "unknown"

// ObjectTypeSubauthority controls the Object Type structural column.
// An unknown Object Type blocks the row entirely.
const ObjectTypeSubauthority = "object_types"
