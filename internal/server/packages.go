package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	parceldomain "github.com/iliazhigalev/zhigalev-delivery-club/internal/parcel/domain"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/session"
	"github.com/iliazhigalev/zhigalev-delivery-club/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type createPackageRequest struct {
	Name             string          `json:"name"`
	WeightKG         decimal.Decimal `json:"weight_kg"`
	ContentsValueUSD decimal.Decimal `json:"contents_value_usd"`
	TypeID           string          `json:"type_id"`
}

func (s *Server) CreatePackage(c *gin.Context) {
	var req createPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.parcelSvc.Create(c.Request.Context(), parceldomain.CreatePackageRequest{
		OwnerSessionID:   session.FromContext(c),
		Name:             strings.TrimSpace(req.Name),
		WeightKG:         req.WeightKG,
		ContentsValueUSD: req.ContentsValueUSD,
		TypeID:           strings.TrimSpace(req.TypeID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toPackageView(resp)})
}

func (s *Server) ListPackages(c *gin.Context) {
	var query struct {
		pagination.Pagination
		TypeID          string `form:"type_id"`
		HasDeliveryCost string `form:"has_delivery_cost"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var hasCost *bool
	if v := strings.TrimSpace(query.HasDeliveryCost); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			AbortWithError(c, newValidationError("has_delivery_cost", "invalid_has_delivery_cost", "invalid has_delivery_cost"))
			return
		}
		hasCost = &parsed
	}

	resp, err := s.parcelSvc.List(c.Request.Context(), parceldomain.ListPackagesRequest{
		OwnerSessionID:  session.FromContext(c),
		PageToken:       query.PageToken,
		PageSize:        int32(query.PageSize),
		TypeID:          strings.TrimSpace(query.TypeID),
		HasDeliveryCost: hasCost,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toListPackagesView(resp)})
}

func (s *Server) GetPackageByID(c *gin.Context) {
	resp, err := s.parcelSvc.GetByID(c.Request.Context(), parceldomain.GetPackageRequest{
		OwnerSessionID: session.FromContext(c),
		ID:             strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toPackageView(resp)})
}

func (s *Server) ClaimPackage(c *gin.Context) {
	companyRaw := strings.TrimSpace(c.Query("company_id"))
	companyID, err := strconv.ParseInt(companyRaw, 10, 64)
	if err != nil || companyID <= 0 {
		AbortWithError(c, newValidationError("company_id", "invalid_company", "invalid company_id"))
		return
	}

	resp, err := s.parcelSvc.Claim(c.Request.Context(), parceldomain.ClaimPackageRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		CompanyID: companyID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	switch resp.Status {
	case parceldomain.ClaimStatusNotFound:
		AbortWithError(c, parceldomain.ErrNotFound)
	case parceldomain.ClaimStatusAlreadyClaimed:
		c.JSON(http.StatusConflict, gin.H{"data": resp})
	default:
		c.JSON(http.StatusOK, gin.H{"data": resp})
	}
}
