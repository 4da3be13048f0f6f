package domain

import "time"

// Client is the top of the hierarchy. Fee catalogs and exchange rates are
// scoped to a client.
type Client struct {
	ID   string
	Name string
}

// Campaign groups media plans under a client. Currency is the campaign's
// base currency; tactic budgets in another buy currency carry a conversion
// rate against it.
type Campaign struct {
	ID        string
	ClientID  string
	Name      string
	Currency  string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Version is one revision of a campaign's media plan. At most one version
// per campaign is official.
type Version struct {
	ID         string
	CampaignID string
	Name       string
	IsOfficial bool
	CreatedAt  time.Time
}

// Tab is a named grouping of sections within a version (an onglet in the
// console).
type Tab struct {
	ID        string
	VersionID string
	Name      string
	Order     int
}

// Section groups tactics within a tab.
type Section struct {
	ID    string
	TabID string
	Name  string
	Color string
	Order int
}

// Placement sits under a tactic and is the unit the CM360 trafficking
// workflow tags.
type Placement struct {
	ID       string
	TacticID string
	Label    string
	TagStart time.Time
	TagEnd   time.Time
	Taxonomy string
	Tagged   bool
	Order    int
}

// Creative sits under a placement.
type Creative struct {
	ID          string
	PlacementID string
	Label       string
	TagStart    time.Time
	TagEnd      time.Time
	Format      string
	Weight      float64
	Order       int
}

const tagDateLayout = "2006-01-02"

// TagFields returns the CM360 tag contract view of the placement.
func (p Placement) TagFields() map[string]any {
	return map[string]any{
		"PL_Label":          p.Label,
		"PL_Tag_Start_Date": p.TagStart.Format(tagDateLayout),
		"PL_Tag_End_Date":   p.TagEnd.Format(tagDateLayout),
		"PL_Taxonomy":       p.Taxonomy,
	}
}

// TagFields returns the CM360 tag contract view of the creative.
func (c Creative) TagFields() map[string]any {
	return map[string]any{
		"CR_Label":           c.Label,
		"CR_Tag_Start_Date":  c.TagStart.Format(tagDateLayout),
		"CR_Tag_End_Date":    c.TagEnd.Format(tagDateLayout),
		"CR_Format":          c.Format,
		"CR_Rotation_Weight": c.Weight,
	}
}
