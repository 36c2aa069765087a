package dhis

import (
	"net/url"
	"strings"
)

// AnalyticsQuery describes one aggregate analytics request in terms of the
// three standard dimensions: data items (dx), periods (pe) and the
// organisation unit clause (ou).
type AnalyticsQuery struct {
	DX []string `json:"dx"`
	PE []string `json:"pe"`
	OU string   `json:"ou"`
}

// Params encodes the query as DHIS2 analytics request parameters.
func (q AnalyticsQuery) Params() url.Values {
	params := url.Values{}
	params.Add("dimension", "dx:"+strings.Join(q.DX, ";"))
	params.Add("dimension", "pe:"+strings.Join(q.PE, ";"))
	params.Add("dimension", "ou:"+q.OU)
	params.Set("displayProperty", "NAME")
	params.Set("includeMetadataDetails", "true")
	return params
}

// Header declares the semantics of one response column by logical name.
type Header struct {
	Name      string `json:"name"`
	Column    string `json:"column"`
	ValueType string `json:"valueType"`
}

// MetaItem is one entry of the id -> display name dictionary that
// accompanies every analytics response.
type MetaItem struct {
	Name string `json:"name"`
}

// MetaData carries the name dictionary and the per-dimension id lists.
type MetaData struct {
	Items      map[string]MetaItem `json:"items"`
	Dimensions map[string][]string `json:"dimensions"`
}

// AnalyticsResponse is the raw column-indexed tabular result of an
// analytics request. Rows are heterogeneous tuples positionally aligned
// to Headers.
type AnalyticsResponse struct {
	Headers  []Header `json:"headers"`
	Rows     [][]any  `json:"rows"`
	MetaData MetaData `json:"metaData"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
}

// OrgUnit is an organisation unit descriptor as returned by the metadata API.
type OrgUnit struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Path        string    `json:"path"`
	Level       int       `json:"level"`
	Parent      *Ref      `json:"parent,omitempty"`
	Groups      []Ref     `json:"organisationUnitGroups,omitempty"`
	Children    []OrgUnit `json:"children,omitempty"`
}

// Ref is a bare id reference to another metadata object.
type Ref struct {
	ID string `json:"id"`
}

// User is the subset of /api/me needed to expand the children of the
// user's assigned unit when USER_ORGUNIT is combined with child expansion.
type User struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	OrgUnits []OrgUnit `json:"organisationUnits"`
}
