package aurorawatch

import (
	"encoding/xml"
	"fmt"
)

// Level is an AuroraWatch alert level. The feeds only ever send the four
// known values, but decoding does not enforce that; use Known to check.
type Level string

const (
	LevelGreen  Level = "green"
	LevelYellow Level = "yellow"
	LevelAmber  Level = "amber"
	LevelRed    Level = "red"
)

// Severity returns a numeric severity for sorting (higher = more activity).
// Unknown levels return -1.
func (l Level) Severity() int {
	switch l {
	case LevelRed:
		return 3
	case LevelAmber:
		return 2
	case LevelYellow:
		return 1
	case LevelGreen:
		return 0
	default:
		return -1
	}
}

// Known reports whether l is one of green, yellow, amber or red.
func (l Level) Known() bool {
	return l.Severity() >= 0
}

// Color returns the hex colour AuroraWatch publishes for the level.
func (l Level) Color() string {
	switch l {
	case LevelRed:
		return "#ff0000"
	case LevelAmber:
		return "#ff9900"
	case LevelYellow:
		return "#ffff00"
	case LevelGreen:
		return "#33ff33"
	default:
		return "#808080"
	}
}

// Schema selects which AuroraWatch document a fetch decodes.
type Schema int

const (
	SchemaCurrent Schema = iota
	SchemaLegacy
	SchemaDescriptions
)

func (s Schema) String() string {
	switch s {
	case SchemaCurrent:
		return "current_status"
	case SchemaLegacy:
		return "aurorawatch"
	case SchemaDescriptions:
		return "status_list"
	default:
		return fmt.Sprintf("schema(%d)", int(s))
	}
}

// Document is a decoded AuroraWatch response.
type Document interface {
	Schema() Schema
	Summary() string
}

// CurrentStatus is the 0.2.5 current_status document.
type CurrentStatus struct {
	XMLName    xml.Name   `xml:"current_status" json:"-"`
	APIVersion string     `xml:"api_version,attr" json:"api_version" validate:"required"`
	Updated    Updated    `xml:"updated" json:"updated"`
	SiteStatus SiteStatus `xml:"site_status" json:"site_status"`
}

type Updated struct {
	Datetime string `xml:"datetime" json:"datetime" validate:"required"`
}

// SiteStatus carries everything as attributes.
type SiteStatus struct {
	ProjectID string `xml:"project_id,attr" json:"project_id" validate:"required"`
	SiteID    string `xml:"site_id,attr" json:"site_id" validate:"required"`
	SiteURL   string `xml:"site_url,attr" json:"site_url" validate:"required"`
	StatusID  Level  `xml:"status_id,attr" json:"status_id" validate:"required"`
}

func (s *CurrentStatus) Schema() Schema { return SchemaCurrent }

func (s *CurrentStatus) Summary() string {
	return fmt.Sprintf("status %s", s.SiteStatus.StatusID)
}

// Level returns the site's current alert level.
func (s *CurrentStatus) Level() Level { return s.SiteStatus.StatusID }

// AuroraWatch is the legacy 0.1 status document.
type AuroraWatch struct {
	XMLName  xml.Name `xml:"aurorawatch" json:"-"`
	Current  Entry    `xml:"current" json:"current"`
	Previous Entry    `xml:"previous" json:"previous"`
	Station  string   `xml:"station" json:"station" validate:"required"`
	Updated  string   `xml:"updated" json:"updated" validate:"required"`
}

type Entry struct {
	State State `xml:"state" json:"state"`
}

// State is a single reading. Description is the element's text content,
// not an attribute.
type State struct {
	Name        Level  `xml:"name,attr" json:"name" validate:"required"`
	Value       string `xml:"value,attr" json:"value" validate:"required,numeric"`
	Color       string `xml:"color,attr" json:"color" validate:"required"`
	Description string `xml:",chardata" json:"description" validate:"required"`
}

func (a *AuroraWatch) Schema() Schema { return SchemaLegacy }

func (a *AuroraWatch) Summary() string {
	return fmt.Sprintf("status %s", a.Current.State.Name)
}

func (a *AuroraWatch) Level() Level { return a.Current.State.Name }

// StatusList is the status-descriptions legend.
type StatusList struct {
	XMLName    xml.Name            `xml:"status_list" json:"-"`
	APIVersion string              `xml:"api_version,attr" json:"api_version" validate:"required"`
	Statuses   []StatusDescription `xml:"status" json:"statuses" validate:"required,min=1,dive"`
}

type StatusDescription struct {
	ID          Level    `xml:"id,attr" json:"id" validate:"required"`
	Color       string   `xml:"color" json:"color" validate:"required"`
	Description LangText `xml:"description" json:"description"`
	Meaning     LangText `xml:"meaning" json:"meaning"`
}

type LangText struct {
	Lang string `xml:"lang,attr" json:"lang,omitempty"`
	Text string `xml:",chardata" json:"text" validate:"required"`
}

func (l *StatusList) Schema() Schema { return SchemaDescriptions }

func (l *StatusList) Summary() string {
	return fmt.Sprintf("statuses %d", len(l.Statuses))
}

// Lookup returns the description published for level.
func (l *StatusList) Lookup(level Level) (StatusDescription, bool) {
	for _, s := range l.Statuses {
		if s.ID == level {
			return s, true
		}
	}
	return StatusDescription{}, false
}

// Leveled is implemented by documents that report a single alert level.
type Leveled interface {
	Document
	Level() Level
}

var (
	_ Leveled  = (*CurrentStatus)(nil)
	_ Leveled  = (*AuroraWatch)(nil)
	_ Document = (*StatusList)(nil)
)
