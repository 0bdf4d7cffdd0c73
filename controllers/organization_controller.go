package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cambridgeconnect/server/models"
	"github.com/cambridgeconnect/server/store"
	"github.com/cambridgeconnect/server/utils"
)

const (
	orgListCacheKey   = "cache:orgs:list:all"
	orgDetailCacheKey = "cache:org:detail:"
)

// OrganizationController serves the organization directory and onboarding.
type OrganizationController struct {
	db *gorm.DB
}

// NewOrganizationController creates an OrganizationController.
func NewOrganizationController(db *gorm.DB) *OrganizationController {
	return &OrganizationController{db: db}
}

// List returns organizations, optionally filtered by type tags and a search
// string. Only the unfiltered listing is cached to avoid key explosion.
func (o *OrganizationController) List(ctx *gin.Context) {
	filters := store.OrganizationFilters{
		Search: strings.TrimSpace(ctx.Query("search")),
	}
	for _, raw := range ctx.QueryArray("type") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				filters.Types = append(filters.Types, models.OrgType(part))
			}
		}
	}

	unfiltered := len(filters.Types) == 0 && filters.Search == ""
	if unfiltered {
		if b, ok := utils.CacheGetBytes(orgListCacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	orgs, err := store.ListOrganizations(o.db, filters)
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	views := models.OrganizationViews(orgs)
	if unfiltered {
		utils.CacheSetJSON(orgListCacheKey, gin.H{"data": views}, 10*time.Minute)
	}
	utils.Success(ctx, views)
}

// Get returns a single organization profile.
func (o *OrganizationController) Get(ctx *gin.Context) {
	id := ctx.Param("id")

	if b, ok := utils.CacheGetBytes(orgDetailCacheKey + id); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	org, err := store.GetOrganization(o.db, id)
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.CacheSetJSON(orgDetailCacheKey+id, gin.H{"data": org.View()}, 10*time.Minute)
	utils.Success(ctx, org.View())
}

type createOrganizationRequest struct {
	Name                 string   `json:"name"`
	Type                 []string `json:"type"`
	Description          string   `json:"description"`
	Website              string   `json:"website"`
	Email                string   `json:"email"`
	Location             string   `json:"location"`
	ContactInternal      string   `json:"contactInternal"`
	CurrentNeedsInternal string   `json:"currentNeedsInternal"`
	ResourcesOffered     string   `json:"resourcesOffered"`
}

// Create registers a new organization and links the calling user to it in
// one transaction.
func (o *OrganizationController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "Authentication required")
		return
	}

	var req createOrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "invalid request payload")
		return
	}
	input := store.CreateOrganizationInput{
		Name:                 utils.SanitizePlain(req.Name),
		Description:          utils.Sanitize(req.Description),
		Website:              optional(req.Website),
		Email:                optional(req.Email),
		Location:             optional(utils.SanitizePlain(req.Location)),
		ContactInternal:      utils.SanitizePlain(req.ContactInternal),
		CurrentNeedsInternal: utils.Sanitize(req.CurrentNeedsInternal),
		ResourcesOffered:     utils.Sanitize(req.ResourcesOffered),
	}
	for _, t := range req.Type {
		input.Type = append(input.Type, models.OrgType(t))
	}

	org, err := store.CreateOrganizationForUser(o.db, input, userID)
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:orgs:")
	utils.Created(ctx, org.View())
}

// Join links the calling user to an existing organization.
func (o *OrganizationController) Join(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "Authentication required")
		return
	}

	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "Organization ID is required")
		return
	}

	org, err := store.JoinOrganization(o.db, id, userID)
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.Success(ctx, org.View())
}

// optional maps empty strings to nil so the column stays NULL.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
