package domain

import "strings"

// Entity is a kind of resource exposed by the metadata API.
type Entity int

const (
	EntityUnknown Entity = iota
	EntityCategory
	EntityClass
	EntityData
	EntityDataProvider
	EntityDataSet
	EntityLink
	EntityLinkType
	EntityMeasure
	EntityMetadata
	EntityNodeType
	EntityPeriodicity
	EntityReferenceArea
	EntitySection
	EntitySource
	EntitySubsection
	EntityTimePeriod
	EntityTimeSeries
	EntityUnitOfMeasure
)

// entityLabels holds the singular and plural path labels of each entity.
// Data and metadata have no collection endpoint.
var entityLabels = map[Entity][2]string{
	EntityCategory:      {"category", "categories"},
	EntityClass:         {"class", "classes"},
	EntityData:          {"data", ""},
	EntityDataProvider:  {"data-provider", "data-providers"},
	EntityDataSet:       {"data-set", "data-sets"},
	EntityLink:          {"link", "links"},
	EntityLinkType:      {"link-type", "link-types"},
	EntityMeasure:       {"measure", "measures"},
	EntityMetadata:      {"metadata", ""},
	EntityNodeType:      {"node-type", "node-types"},
	EntityPeriodicity:   {"periodicity", "periodicities"},
	EntityReferenceArea: {"reference-area", "reference-areas"},
	EntitySection:       {"section", "sections"},
	EntitySource:        {"source", "sources"},
	EntitySubsection:    {"subsection", "subsections"},
	EntityTimePeriod:    {"time-period", "time-periods"},
	EntityTimeSeries:    {"time-series", "time-series-list"},
	EntityUnitOfMeasure: {"unit-of-measure", "units-of-measure"},
}

// Label is the singular path label, e.g. "reference-area".
func (e Entity) Label() string {
	return entityLabels[e][0]
}

// Plural is the collection path label, e.g. "reference-areas".
func (e Entity) Plural() string {
	return entityLabels[e][1]
}

func (e Entity) String() string {
	if l := e.Label(); l != "" {
		return l
	}
	return "unknown"
}

// Listable reports whether the entity has a plain collection endpoint.
// Classes are listed per language and time series per category.
func (e Entity) Listable() bool {
	switch e {
	case EntityUnknown, EntityData, EntityMetadata, EntityClass, EntityTimeSeries:
		return false
	}
	return true
}

// ParseEntity resolves a singular or plural label, case-insensitively.
func ParseEntity(s string) Entity {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return EntityUnknown
	}
	for e, labels := range entityLabels {
		if s == labels[0] || s == labels[1] {
			return e
		}
	}
	return EntityUnknown
}

// Entities returns every known entity in declaration order.
func Entities() []Entity {
	out := make([]Entity, 0, len(entityLabels))
	for e := EntityCategory; e <= EntityUnitOfMeasure; e++ {
		out = append(out, e)
	}
	return out
}
