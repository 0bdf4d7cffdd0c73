// Package store holds the data operations behind the API surface: list
// filtering, transactional creation, and denormalized counter maintenance.
// Functions take the *gorm.DB they should run against so tests can hand in
// an in-memory database and transactional callers can pass a tx.
package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cambridgeconnect/server/models"
	"github.com/cambridgeconnect/server/utils"
)

// OrganizationFilters narrows ListOrganizations results. Both filters may be
// set at once; the result is their intersection.
type OrganizationFilters struct {
	Types  []models.OrgType
	Search string
}

// ListOrganizations returns organizations ordered by name ascending.
// The type filter matches any organization whose tag list intersects the
// requested set; the search filter does a case-insensitive substring match
// against name, description, location, resources offered and current needs.
func ListOrganizations(db *gorm.DB, filters OrganizationFilters) ([]models.Organization, error) {
	query := db.Model(&models.Organization{}).Order("name ASC")

	if len(filters.Types) > 0 {
		// The type column stores a JSON array of quoted tags; a legacy row
		// may hold a bare tag string, so match both forms.
		typeCond := db.Where("1 = 0")
		for _, t := range filters.Types {
			typeCond = typeCond.Or("type LIKE ? OR type = ?", `%"`+string(t)+`"%`, string(t))
		}
		query = query.Where(typeCond)
	}

	if search := strings.TrimSpace(filters.Search); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ? OR LOWER(resources_offered) LIKE ? OR LOWER(current_needs_internal) LIKE ?",
			needle, needle, needle, needle, needle,
		)
	}

	var orgs []models.Organization
	if err := query.Find(&orgs).Error; err != nil {
		return nil, utils.Internal("failed to list organizations", err)
	}
	return orgs, nil
}

// GetOrganization fetches one organization by ID.
func GetOrganization(db *gorm.DB, id string) (*models.Organization, error) {
	var org models.Organization
	if err := db.Where("id = ?", id).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Organization not found")
		}
		return nil, utils.Internal("failed to load organization", err)
	}
	return &org, nil
}

// CreateOrganizationInput carries the fields accepted at organization
// creation. Website, Email and Location are optional.
type CreateOrganizationInput struct {
	Name                 string
	Type                 []models.OrgType
	Description          string
	Website              *string
	Email                *string
	Location             *string
	ContactInternal      string
	CurrentNeedsInternal string
	ResourcesOffered     string
}

// CreateOrganizationForUser creates an organization and links the requesting
// user to it. The name-uniqueness check, the insert and the user update run
// in one transaction; the check itself is still subject to a race between
// concurrent creators under default isolation.
func CreateOrganizationForUser(db *gorm.DB, input CreateOrganizationInput, userID string) (*models.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || strings.TrimSpace(input.Description) == "" || strings.TrimSpace(input.ContactInternal) == "" || len(input.Type) == 0 {
		return nil, utils.BadRequest("Name, type, description, and contact information are required")
	}
	for _, t := range input.Type {
		if !models.ValidOrgType(t) {
			return nil, utils.BadRequest(fmt.Sprintf("invalid organization type: %s", t))
		}
	}

	org := models.Organization{
		Name:                 name,
		Type:                 models.SerializeOrgTypes(input.Type),
		Description:          strings.TrimSpace(input.Description),
		Website:              input.Website,
		Email:                input.Email,
		Location:             input.Location,
		ContactInternal:      strings.TrimSpace(input.ContactInternal),
		CurrentNeedsInternal: input.CurrentNeedsInternal,
		ResourcesOffered:     input.ResourcesOffered,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Organization{}).
			Where("LOWER(name) = ?", strings.ToLower(name)).
			Count(&count).Error; err != nil {
			return utils.Internal("failed to check organization name", err)
		}
		if count > 0 {
			return utils.Conflict(utils.CodeConflict, "An organization with this name already exists")
		}

		if err := tx.Create(&org).Error; err != nil {
			return utils.Internal("failed to create organization", err)
		}

		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("User not found")
			}
			return utils.Internal("failed to load user", err)
		}
		if err := tx.Model(&user).Update("organization_id", org.ID).Error; err != nil {
			return utils.Internal("failed to link user to organization", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// JoinOrganization links an existing organization to the user. Only the user
// row changes, so no transaction is needed.
func JoinOrganization(db *gorm.DB, orgID, userID string) (*models.Organization, error) {
	org, err := GetOrganization(db, orgID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, utils.Internal("failed to load user", err)
	}
	if err := db.Model(&user).Update("organization_id", org.ID).Error; err != nil {
		return nil, utils.Internal("failed to join organization", err)
	}
	return org, nil
}
