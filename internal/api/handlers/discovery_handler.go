package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/services"
)

type DiscoveryHandler struct {
	discoveryService *services.DiscoveryService
}

func NewDiscoveryHandler(discoveryService *services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryService: discoveryService,
	}
}

// DiscoverParams are the query parameters of the discover endpoints. Prices
// are in cents.
//
// Go Learning Note — Query Binding:
// c.ShouldBindQuery fills a struct from URL query parameters using `form`
// tags. Pointer fields stay nil when the parameter is absent, which keeps
// "no lower bound" distinct from "lower bound 0".
type DiscoverParams struct {
	Term        string `form:"q"`
	Category    string `form:"category"`
	Subcategory string `form:"subcategory"`
	PriceMin    *int64 `form:"price_min" binding:"omitempty,min=0"`
	PriceMax    *int64 `form:"price_max" binding:"omitempty,min=0"`
	Delivery    string `form:"delivery"`
	Role        string `form:"role"`
	Location    string `form:"location"`
	Sort        string `form:"sort"`
	Country     string `form:"country"`
}

func (p DiscoverParams) query(kind entities.EntityKind) entities.SearchQuery {
	q := entities.NewSearchQuery(kind, entities.NoLocation())
	q.Term = p.Term
	q.Category = p.Category
	q.Subcategory = p.Subcategory
	q.PriceMin = p.PriceMin
	q.PriceMax = p.PriceMax
	q.DeliveryMode = p.Delivery
	q.RoleFilter = p.Role
	q.LocationText = p.Location
	q.CountryCode = p.Country
	if p.Sort != "" {
		q.SortKey = entities.SortKey(p.Sort)
	}
	return q
}

// DiscoverListings handles GET /sessions/:id/discover/listings
func (h *DiscoveryHandler) DiscoverListings(c *gin.Context) {
	h.discover(c, entities.KindListing)
}

// DiscoverPeople handles GET /sessions/:id/discover/people
func (h *DiscoveryHandler) DiscoverPeople(c *gin.Context) {
	h.discover(c, entities.KindPerson)
}

func (h *DiscoveryHandler) discover(c *gin.Context, kind entities.EntityKind) {
	var params DiscoverParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.discoveryService.Discover(c.Request.Context(), c.Param("id"), params.query(kind))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
