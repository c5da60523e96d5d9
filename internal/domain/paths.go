package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams are the optional filters of time-series requests.
type QueryParams struct {
	NodeType string
	Inactive *bool
}

// Encode renders the present params as a query string, nodeType first.
// It returns "" when no param is set.
func (q QueryParams) Encode() string {
	var parts []string
	if q.NodeType != "" {
		parts = append(parts, "nodeType="+url.QueryEscape(q.NodeType))
	}
	if q.Inactive != nil {
		parts = append(parts, "inactive="+strconv.FormatBool(*q.Inactive))
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

// PathParams joins the present uriTags as "/a/b/c". Tags after the first
// empty one are ignored since the API nests section, subsection and
// data set in that order.
func PathParams(tags ...string) string {
	var b strings.Builder
	for _, tag := range tags {
		if tag == "" {
			break
		}
		b.WriteString("/")
		b.WriteString(tag)
	}
	return b.String()
}

// EntityPath is the path of one entity, e.g. "section/economy".
func EntityPath(e Entity, uriTag string) string {
	return e.Label() + "/" + uriTag
}

// CollectionPath is the path listing every entity of a kind.
func CollectionPath(e Entity) string {
	return e.Plural()
}

// LastUpdatedPath is the path of the last-updated timestamp of data or
// metadata.
func LastUpdatedPath(e Entity) string {
	return e.Label() + "/last-updated"
}

// ClassPath is the path of a class description in a language.
func ClassPath(name, lang string) string {
	return EntityClass.Label() + "/" + name + "/description/" + lang
}

// ClassesPath is the path listing every class description in a language.
func ClassesPath(lang string) string {
	return EntityClass.Plural() + "/description/" + lang
}

// TimeSeriesPath is the path of one time series or hierarchy node.
func TimeSeriesPath(uriTag string, q QueryParams) string {
	return EntityPath(EntityTimeSeries, uriTag) + q.Encode()
}

// ParentPath is the path of a node's parent.
func ParentPath(uriTag string) string {
	return EntityPath(EntityTimeSeries, uriTag) + "/parent"
}

// ParentsPath is the path of all ancestors of a node.
func ParentsPath(uriTag string) string {
	return EntityPath(EntityTimeSeries, uriTag) + "/parents"
}

// PossibleSubsectionsPath is the path of the subsections a node may belong to.
func PossibleSubsectionsPath(uriTag string) string {
	return EntityPath(EntityTimeSeries, uriTag) + "/subsections"
}

// PossibleTimeSeriesPath is the path of the nodes related to a node.
func PossibleTimeSeriesPath(uriTag string) string {
	return EntityTimeSeries.Plural() + "/" + uriTag
}

// SectionSubsectionsPath is the path listing the subsections of a section.
func SectionSubsectionsPath(section string) string {
	return EntityPath(EntitySection, section) + "/subsections"
}

// SectionSubsectionPath is the path of one subsection within a section.
func SectionSubsectionPath(section, subsection string) string {
	return EntityPath(EntitySection, section) + "/" + subsection
}

// DataSetsPath is the path of the data-set nodes of a subsection.
func DataSetsPath(category, section, subsection string) string {
	return category + PathParams(section, subsection) + "/" + EntityDataSet.Plural()
}

// TimeSeriesListPath is the path of the nodes under a category, optionally
// narrowed by section, subsection and data set, and filtered by q.
func TimeSeriesListPath(category, section, subsection, dataSet string, q QueryParams) string {
	return category + PathParams(section, subsection, dataSet) + "/" + EntityTimeSeries.Plural() + q.Encode()
}

// UpdatedSincePath is the path of the time series whose data was updated
// on the given date.
func UpdatedSincePath(date string) string {
	return EntityTimeSeries.Plural() + "?data_updated=" + url.QueryEscape(date)
}
