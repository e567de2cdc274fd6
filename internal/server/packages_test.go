package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	packagetypedomain "github.com/iliazhigalev/zhigalev-delivery-club/internal/packagetype/domain"
	parceldomain "github.com/iliazhigalev/zhigalev-delivery-club/internal/parcel/domain"
	"github.com/shopspring/decimal"
)

type fakeParcelService struct {
	lastCreate parceldomain.CreatePackageRequest
	lastList   parceldomain.ListPackagesRequest
	lastClaim  parceldomain.ClaimPackageRequest

	createErr   error
	getErr      error
	getPkg      parceldomain.Package
	claimResult parceldomain.ClaimResult
	priced      int
	pricedErr   error
}

func (f *fakeParcelService) Create(ctx context.Context, req parceldomain.CreatePackageRequest) (parceldomain.Package, error) {
	_ = ctx
	f.lastCreate = req
	if f.createErr != nil {
		return parceldomain.Package{}, f.createErr
	}
	return parceldomain.Package{ID: snowflake.ID(1), Name: req.Name}, nil
}

func (f *fakeParcelService) List(ctx context.Context, req parceldomain.ListPackagesRequest) (parceldomain.ListPackagesResponse, error) {
	_ = ctx
	f.lastList = req
	return parceldomain.ListPackagesResponse{}, nil
}

func (f *fakeParcelService) GetByID(ctx context.Context, req parceldomain.GetPackageRequest) (parceldomain.Package, error) {
	_ = ctx
	_ = req
	if f.getErr != nil {
		return parceldomain.Package{}, f.getErr
	}
	if f.getPkg.ID != 0 {
		return f.getPkg, nil
	}
	return parceldomain.Package{ID: snowflake.ID(7)}, nil
}

func (f *fakeParcelService) Claim(ctx context.Context, req parceldomain.ClaimPackageRequest) (parceldomain.ClaimResult, error) {
	_ = ctx
	f.lastClaim = req
	return f.claimResult, nil
}

func (f *fakeParcelService) PriceUnprocessed(ctx context.Context) (int, error) {
	_ = ctx
	return f.priced, f.pricedErr
}

type fakeTypeService struct {
	types []packagetypedomain.PackageType
}

func (f *fakeTypeService) List(ctx context.Context) ([]packagetypedomain.PackageType, error) {
	_ = ctx
	return f.types, nil
}

func (f *fakeTypeService) GetByID(ctx context.Context, id snowflake.ID) (packagetypedomain.PackageType, error) {
	_ = ctx
	_ = id
	return packagetypedomain.PackageType{}, packagetypedomain.ErrNotFound
}

func (f *fakeTypeService) EnsureDefaults(ctx context.Context) error {
	_ = ctx
	return nil
}

func withSession(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("session_id", id)
		c.Next()
	}
}

func newTestRouter(srv *Server, sessionID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())

	packages := router.Group("/packages", withSession(sessionID))
	packages.POST("", srv.CreatePackage)
	packages.GET("", srv.ListPackages)
	packages.GET("/types", srv.ListPackageTypes)
	packages.GET("/:id", srv.GetPackageByID)
	packages.POST("/:id/claim", srv.ClaimPackage)
	router.POST("/admin/compute-costs", srv.TriggerComputeCosts)
	return router
}

func TestCreatePackagePassesSessionAndTrimsName(t *testing.T) {
	parcels := &fakeParcelService{}
	router := newTestRouter(&Server{parcelSvc: parcels}, "sess-1")

	body := bytes.NewBufferString(`{"name":"  books  ","weight_kg":2,"contents_value_usd":100,"type_id":""}`)
	req := httptest.NewRequest(http.MethodPost, "/packages", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if parcels.lastCreate.OwnerSessionID != "sess-1" {
		t.Fatalf("expected owner session sess-1, got %q", parcels.lastCreate.OwnerSessionID)
	}
	if parcels.lastCreate.Name != "books" {
		t.Fatalf("expected trimmed name, got %q", parcels.lastCreate.Name)
	}
	if !parcels.lastCreate.WeightKG.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("unexpected weight %s", parcels.lastCreate.WeightKG)
	}
}

func TestCreatePackageRejectsMalformedBody(t *testing.T) {
	parcels := &fakeParcelService{}
	router := newTestRouter(&Server{parcelSvc: parcels}, "sess-1")

	req := httptest.NewRequest(http.MethodPost, "/packages", bytes.NewBufferString(`{"weight_kg":"oops`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestCreatePackageMapsValidationError(t *testing.T) {
	parcels := &fakeParcelService{createErr: parceldomain.ErrInvalidWeight}
	router := newTestRouter(&Server{parcelSvc: parcels}, "sess-1")

	req := httptest.NewRequest(http.MethodPost, "/packages", bytes.NewBufferString(`{"name":"x","weight_kg":-1,"contents_value_usd":1}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListPackagesParsesFilters(t *testing.T) {
	parcels := &fakeParcelService{}
	router := newTestRouter(&Server{parcelSvc: parcels}, "sess-2")

	req := httptest.NewRequest(http.MethodGet, "/packages?type_id=42&has_delivery_cost=true&page_size=5", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if parcels.lastList.OwnerSessionID != "sess-2" {
		t.Fatalf("expected owner session sess-2, got %q", parcels.lastList.OwnerSessionID)
	}
	if parcels.lastList.TypeID != "42" {
		t.Fatalf("expected type filter 42, got %q", parcels.lastList.TypeID)
	}
	if parcels.lastList.HasDeliveryCost == nil || !*parcels.lastList.HasDeliveryCost {
		t.Fatal("expected has_delivery_cost filter to be true")
	}
	if parcels.lastList.PageSize != 5 {
		t.Fatalf("expected page size 5, got %d", parcels.lastList.PageSize)
	}
}

func TestListPackagesRejectsBadCostFilter(t *testing.T) {
	router := newTestRouter(&Server{parcelSvc: &fakeParcelService{}}, "sess-2")

	req := httptest.NewRequest(http.MethodGet, "/packages?has_delivery_cost=maybe", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestGetPackageByIDNotFound(t *testing.T) {
	parcels := &fakeParcelService{getErr: parceldomain.ErrNotFound}
	router := newTestRouter(&Server{parcelSvc: parcels}, "sess-3")

	req := httptest.NewRequest(http.MethodGet, "/packages/123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestGetPackageRendersDeliveryCost(t *testing.T) {
	cases := []struct {
		name string
		pkg  parceldomain.Package
		want string
	}{
		{
			name: "unpriced",
			pkg:  parceldomain.Package{ID: snowflake.ID(11), Name: "books"},
			want: "not yet computed",
		},
		{
			name: "priced",
			pkg: parceldomain.Package{
				ID:              snowflake.ID(12),
				Name:            "skis",
				DeliveryCostRUB: decimal.NewNullDecimal(decimal.NewFromInt(240)),
			},
			want: "240.00",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parcels := &fakeParcelService{getPkg: tc.pkg}
			router := newTestRouter(&Server{parcelSvc: parcels}, "sess-7")

			req := httptest.NewRequest(http.MethodGet, "/packages/"+tc.pkg.ID.String(), nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
			}
			var body struct {
				Data struct {
					DeliveryCostRUB string `json:"delivery_cost_rub"`
				} `json:"data"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body.Data.DeliveryCostRUB != tc.want {
				t.Fatalf("expected delivery cost %q, got %q", tc.want, body.Data.DeliveryCostRUB)
			}
		})
	}
}

func TestClaimPackageOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		result     parceldomain.ClaimResult
		wantStatus int
	}{
		{"claimed", parceldomain.ClaimResult{Status: parceldomain.ClaimStatusClaimed, CompanyID: 9}, http.StatusOK},
		{"already claimed", parceldomain.ClaimResult{Status: parceldomain.ClaimStatusAlreadyClaimed}, http.StatusConflict},
		{"not found", parceldomain.ClaimResult{Status: parceldomain.ClaimStatusNotFound}, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parcels := &fakeParcelService{claimResult: tc.result}
			router := newTestRouter(&Server{parcelSvc: parcels}, "sess-4")

			req := httptest.NewRequest(http.MethodPost, "/packages/555/claim?company_id=9", nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, resp.Code, resp.Body.String())
			}
			if parcels.lastClaim.CompanyID != 9 {
				t.Fatalf("expected company 9, got %d", parcels.lastClaim.CompanyID)
			}
		})
	}
}

func TestClaimPackageRejectsBadCompanyID(t *testing.T) {
	parcels := &fakeParcelService{}
	router := newTestRouter(&Server{parcelSvc: parcels}, "sess-4")

	req := httptest.NewRequest(http.MethodPost, "/packages/555/claim?company_id=zero", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if parcels.lastClaim.CompanyID != 0 {
		t.Fatal("expected claim service not to be called")
	}
}

func TestTriggerComputeCostsReturnsCount(t *testing.T) {
	parcels := &fakeParcelService{priced: 4}
	router := newTestRouter(&Server{parcelSvc: parcels}, "sess-5")

	req := httptest.NewRequest(http.MethodPost, "/admin/compute-costs", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Processed int `json:"processed_count"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Processed != 4 {
		t.Fatalf("expected processed_count 4, got %d", body.Processed)
	}
}

func TestListPackageTypes(t *testing.T) {
	types := &fakeTypeService{types: []packagetypedomain.PackageType{
		{ID: snowflake.ID(1), Name: "clothes"},
		{ID: snowflake.ID(2), Name: "electronics"},
	}}
	router := newTestRouter(&Server{parcelSvc: &fakeParcelService{}, typeSvc: types}, "sess-6")

	req := httptest.NewRequest(http.MethodGet, "/packages/types", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Data []packagetypedomain.PackageType `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 types, got %d", len(body.Data))
	}
}
