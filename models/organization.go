package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrgType tags an organization with a category. An organization carries an
// ordered list of tags, persisted as a JSON string in the Type column.
type OrgType string

const (
	OrgTypeNonprofit       OrgType = "nonprofit"
	OrgTypePublicLibrary   OrgType = "public_library"
	OrgTypeCommunityCenter OrgType = "community_center"
	OrgTypeGrassroots      OrgType = "grassroots"
	OrgTypeArtsVenue       OrgType = "arts_venue"
	OrgTypeOther           OrgType = "other"
)

// OrgTypes lists every valid tag, in the order the filter UI presents them.
func OrgTypes() []OrgType {
	return []OrgType{
		OrgTypeNonprofit,
		OrgTypePublicLibrary,
		OrgTypeCommunityCenter,
		OrgTypeGrassroots,
		OrgTypeArtsVenue,
		OrgTypeOther,
	}
}

// ValidOrgType reports whether t is a known tag.
func ValidOrgType(t OrgType) bool {
	switch t {
	case OrgTypeNonprofit, OrgTypePublicLibrary, OrgTypeCommunityCenter,
		OrgTypeGrassroots, OrgTypeArtsVenue, OrgTypeOther:
		return true
	}
	return false
}

// Organization is a registered community group profile. ContactInternal and
// CurrentNeedsInternal are member-facing fields, not shown on public pages.
type Organization struct {
	ID                   string    `gorm:"primaryKey;size:36" json:"id"`
	Name                 string    `gorm:"size:255;not null" json:"name"`
	Type                 string    `gorm:"type:text;not null" json:"-"`
	Description          string    `gorm:"type:text;not null" json:"description"`
	Website              *string   `gorm:"size:512" json:"website"`
	Email                *string   `gorm:"size:255" json:"email"`
	Location             *string   `gorm:"size:255" json:"location"`
	ContactInternal      string    `gorm:"size:512;not null" json:"contactInternal"`
	CurrentNeedsInternal string    `gorm:"type:text" json:"currentNeedsInternal"`
	ResourcesOffered     string    `gorm:"type:text" json:"resourcesOffered"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// SerializeOrgTypes encodes a tag list into the stored column form.
func SerializeOrgTypes(types []OrgType) string {
	b, err := json.Marshal(types)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DeserializeOrgTypes decodes the stored column form back into a tag list.
// Text that is not valid JSON is treated as a single raw tag rather than an
// error; historical rows predate the JSON encoding.
func DeserializeOrgTypes(stored string) []OrgType {
	var types []OrgType
	if err := json.Unmarshal([]byte(stored), &types); err != nil {
		return []OrgType{OrgType(stored)}
	}
	return types
}

// TypeTags returns the organization's decoded tag list.
func (o *Organization) TypeTags() []OrgType {
	return DeserializeOrgTypes(o.Type)
}
