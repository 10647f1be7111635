package location_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	errors "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/access"
	companyDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/company"
	"github.com/frahmantamala/business-management/internal/core/datamodel/sqlitetest"
	"github.com/frahmantamala/business-management/internal/location"
	locationPostgres "github.com/frahmantamala/business-management/internal/location/postgres"
	"github.com/frahmantamala/business-management/internal/transport"
)

func TestLocation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Location Suite")
}

func fieldCodes(err error) map[string]string {
	appErr, ok := errors.IsAppError(err)
	Expect(ok).To(BeTrue(), "expected *AppError, got %v", err)
	details, ok := appErr.Details.(errors.ValidationErrors)
	Expect(ok).To(BeTrue(), "expected validation details, got %v", appErr.Details)
	out := make(map[string]string, len(details.Errors))
	for _, e := range details.Errors {
		out[e.Field] = e.Code
	}
	return out
}

var _ = Describe("Location Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *location.Service

		alpha, branch, gamma   *companyDatamodel.Company
		superAdmin, alphaAdmin *access.Identity
		alphaEmployee          *access.Identity
		hq, outlet, warehouse  *location.Location
		params                 transport.ListParams
	)

	company := func(name, taxID string, parent *int64) *companyDatamodel.Company {
		c := &companyDatamodel.Company{Name: name, TaxID: taxID, BusinessType: "other", ParentID: parent}
		Expect(db.Create(c).Error).To(Succeed())
		return c
	}

	create := func(companyID int64, name string) *location.Location {
		l, err := service.Create(ctx, superAdmin, location.CreateLocationDTO{CompanyID: companyID, Name: name})
		Expect(err).NotTo(HaveOccurred())
		return l
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, _, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		engine, err := access.NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
		Expect(err).NotTo(HaveOccurred())
		service = location.NewService(locationPostgres.NewLocationRepository(db), engine, slog.New(slog.NewTextHandler(io.Discard, nil)))

		alpha = company("Alpha", "30000000001", nil)
		branch = company("Alpha Branch", "30000000002", &alpha.ID)
		gamma = company("Gamma", "30000000003", nil)

		superAdmin = &access.Identity{ID: 1, Role: access.RoleSuperAdmin, Active: true}
		alphaAdmin = &access.Identity{ID: 2, Role: access.RoleAdmin, TenantID: &alpha.ID, Active: true}
		alphaEmployee = &access.Identity{ID: 3, Role: access.RoleEmployee, TenantID: &alpha.ID, Active: true}

		hq = create(alpha.ID, "Main")
		outlet = create(branch.ID, "Outlet")
		warehouse = create(gamma.ID, "Warehouse")
		params = transport.ListParams{Ordering: transport.Ordering{Field: "name"}, Limit: transport.DefaultLimit}
	})

	Describe("List", func() {
		It("should include locations of branches", func() {
			locations, count, err := service.List(ctx, alphaAdmin, location.ListFilter{}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
			Expect([]string{locations[0].Name, locations[1].Name}).To(Equal([]string{"Main", "Outlet"}))
		})

		It("should leave out locations of a branch's own branches", func() {
			sub := company("Alpha Sub Branch", "30000000004", &branch.ID)
			depot := create(sub.ID, "Depot")

			locations, count, err := service.List(ctx, alphaAdmin, location.ListFilter{}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
			Expect([]string{locations[0].Name, locations[1].Name}).To(Equal([]string{"Main", "Outlet"}))

			_, err = service.Get(ctx, alphaAdmin, depot.ID)
			Expect(err).To(MatchError(errors.ErrLocationNotFound))

			branchAdmin := &access.Identity{ID: 4, Role: access.RoleAdmin, TenantID: &branch.ID, Active: true}
			locations, _, err = service.List(ctx, branchAdmin, location.ListFilter{}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect([]string{locations[0].Name, locations[1].Name}).To(Equal([]string{"Depot", "Outlet"}))
		})

		It("should forbid employees", func() {
			_, _, err := service.List(ctx, alphaEmployee, location.ListFilter{}, params)
			Expect(err).To(MatchError(access.ErrForbidden))
		})

		It("should filter by company", func() {
			locations, count, err := service.List(ctx, superAdmin, location.ListFilter{CompanyID: &gamma.ID}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
			Expect(locations[0].ID).To(Equal(warehouse.ID))
		})
	})

	Describe("Get", func() {
		It("should return the admin's own location", func() {
			l, err := service.Get(ctx, alphaAdmin, hq.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.CompanyID).To(Equal(alpha.ID))
		})

		It("should list but not open a branch location", func() {
			_, err := service.Get(ctx, alphaAdmin, outlet.ID)
			Expect(err).To(MatchError(access.ErrForbidden))
		})

		It("should report locations of other tenants as not found", func() {
			_, err := service.Get(ctx, alphaAdmin, warehouse.ID)
			Expect(err).To(MatchError(errors.ErrLocationNotFound))
		})
	})

	Describe("Create", func() {
		It("should reject a duplicate name within the company", func() {
			_, err := service.Create(ctx, alphaAdmin, location.CreateLocationDTO{CompanyID: alpha.ID, Name: "Main"})
			Expect(fieldCodes(err)).To(Equal(map[string]string{"name": string(errors.ErrCodeDuplicateName)}))
		})

		It("should allow the same name in another company", func() {
			l, err := service.Create(ctx, superAdmin, location.CreateLocationDTO{CompanyID: gamma.ID, Name: "Main"})
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Active).To(BeTrue())
		})

		It("should reject an unknown company", func() {
			_, err := service.Create(ctx, superAdmin, location.CreateLocationDTO{CompanyID: 999, Name: "Nowhere"})
			Expect(fieldCodes(err)).To(Equal(map[string]string{"company": string(errors.ErrCodeUnknownCompany)}))
		})

		It("should require company and name", func() {
			_, err := service.Create(ctx, superAdmin, location.CreateLocationDTO{})
			Expect(fieldCodes(err)).To(HaveKey("company"))
			Expect(fieldCodes(err)).To(HaveKey("name"))
		})
	})

	Describe("Update", func() {
		It("should rename a location", func() {
			name := "Headquarters"
			l, err := service.Update(ctx, alphaAdmin, hq.ID, location.UpdateLocationDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Name).To(Equal("Headquarters"))
		})

		It("should not move a location outside the admin's company", func() {
			_, err := service.Update(ctx, alphaAdmin, hq.ID, location.UpdateLocationDTO{CompanyID: &gamma.ID})
			Expect(fieldCodes(err)).To(Equal(map[string]string{"company": string(errors.ErrCodeUnknownCompany)}))
		})

		It("should let a super admin move a location", func() {
			l, err := service.Update(ctx, superAdmin, hq.ID, location.UpdateLocationDTO{CompanyID: &gamma.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(l.CompanyID).To(Equal(gamma.ID))
		})

		It("should reject a move that collides with an existing name", func() {
			name := "Warehouse"
			_, err := service.Update(ctx, superAdmin, hq.ID, location.UpdateLocationDTO{CompanyID: &gamma.ID, Name: &name})
			Expect(fieldCodes(err)).To(Equal(map[string]string{"name": string(errors.ErrCodeDuplicateName)}))
		})

		It("should hide a deactivated location", func() {
			inactive := false
			_, err := service.Update(ctx, alphaAdmin, hq.ID, location.UpdateLocationDTO{Active: &inactive})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Get(ctx, alphaAdmin, hq.ID)
			Expect(err).To(MatchError(errors.ErrLocationNotFound))
		})
	})

	Describe("Delete", func() {
		It("should delete the admin's own location", func() {
			Expect(service.Delete(ctx, alphaAdmin, hq.ID)).To(Succeed())
			_, err := service.Get(ctx, superAdmin, hq.ID)
			Expect(err).To(MatchError(errors.ErrLocationNotFound))
		})

		It("should not delete locations of other tenants", func() {
			Expect(service.Delete(ctx, alphaAdmin, warehouse.ID)).To(MatchError(errors.ErrLocationNotFound))
		})
	})
})
