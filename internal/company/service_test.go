package company_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	errors "github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/access"
	"github.com/frahmantamala/business-management/internal/company"
	companyPostgres "github.com/frahmantamala/business-management/internal/company/postgres"
	"github.com/frahmantamala/business-management/internal/core/common/nullable"
	locationDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/location"
	"github.com/frahmantamala/business-management/internal/core/datamodel/sqlitetest"
	"github.com/frahmantamala/business-management/internal/core/events"
	"github.com/frahmantamala/business-management/internal/transport"
)

func TestCompany(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Company Suite")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
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

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ = Describe("Company Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		service   *company.Service
		publisher *recordingPublisher

		alpha, branch, gamma                  *company.Company
		superAdmin, alphaAdmin, alphaEmployee *access.Identity
		params                                transport.ListParams
	)

	create := func(name, taxID string, parent *int64) *company.Company {
		c, err := service.Create(ctx, superAdmin, company.CreateCompanyDTO{
			Name:         name,
			TaxID:        taxID,
			BusinessType: "other",
			ParentID:     parent,
		})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, _, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		engine, err := access.NewEngine(quietLogger())
		Expect(err).NotTo(HaveOccurred())
		publisher = &recordingPublisher{}
		service = company.NewService(companyPostgres.NewCompanyRepository(db), engine, publisher, quietLogger())

		superAdmin = &access.Identity{ID: 1, Role: access.RoleSuperAdmin, Active: true}
		alpha = create("Alpha", "20000000001", nil)
		branch = create("Alpha Branch", "20000000002", &alpha.ID)
		gamma = create("Gamma", "20000000003", nil)

		alphaAdmin = &access.Identity{ID: 2, Role: access.RoleAdmin, TenantID: &alpha.ID, Active: true}
		alphaEmployee = &access.Identity{ID: 3, Role: access.RoleEmployee, TenantID: &alpha.ID, Active: true}
		params = transport.ListParams{Ordering: transport.Ordering{Field: "name"}, Limit: transport.DefaultLimit}
	})

	Describe("List", func() {
		It("should show an admin its company and its branch", func() {
			companies, count, err := service.List(ctx, alphaAdmin, company.ListFilter{}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
			Expect(companies[0].ID).To(Equal(alpha.ID))
			Expect(companies[1].ID).To(Equal(branch.ID))
			Expect(companies[0].Branches).To(Equal([]int64{branch.ID}))
		})

		It("should forbid employees", func() {
			_, _, err := service.List(ctx, alphaEmployee, company.ListFilter{}, params)
			Expect(err).To(MatchError(access.ErrForbidden))
		})

		It("should require authentication", func() {
			_, _, err := service.List(ctx, nil, company.ListFilter{}, params)
			Expect(err).To(MatchError(access.ErrUnauthenticated))
		})
	})

	Describe("Get", func() {
		It("should report a company of another tenant as not found", func() {
			_, err := service.Get(ctx, alphaAdmin, gamma.ID)
			Expect(err).To(MatchError(errors.ErrCompanyNotFound))
		})

		It("should include branches and locations", func() {
			Expect(db.Create(&locationDatamodel.Location{CompanyID: alpha.ID, Name: "Main", IsPrimaryWarehouse: true}).Error).To(Succeed())

			c, err := service.Get(ctx, alphaAdmin, alpha.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Branches).To(ConsistOf(branch.ID))
			Expect(c.Locations).To(HaveLen(1))
			Expect(c.Locations[0].Name).To(Equal("Main"))
			Expect(c.Locations[0].CompanyID).To(Equal(alpha.ID))
		})

		It("should let the parent's admin open the branch", func() {
			c, err := service.Get(ctx, alphaAdmin, branch.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.IsBranch()).To(BeTrue())
		})

		It("should hide a branch of a branch from the root's admin", func() {
			sub := create("Alpha Sub Branch", "20000000004", &branch.ID)

			_, err := service.Get(ctx, alphaAdmin, sub.ID)
			Expect(err).To(MatchError(errors.ErrCompanyNotFound))

			companies, count, err := service.List(ctx, alphaAdmin, company.ListFilter{}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
			Expect(companies[1].Branches).To(Equal([]int64{sub.ID}))

			branchAdmin := &access.Identity{ID: 4, Role: access.RoleAdmin, TenantID: &branch.ID, Active: true}
			c, err := service.Get(ctx, branchAdmin, sub.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*c.ParentID).To(Equal(branch.ID))
		})
	})

	Describe("Create", func() {
		It("should default the subscription plan", func() {
			Expect(alpha.SubscriptionPlan).To(Equal(company.DefaultSubscriptionPlan))
			Expect(alpha.Active).To(BeTrue())
		})

		It("should report duplicate tax ids and unknown parents together", func() {
			missing := int64(999)
			_, err := service.Create(ctx, superAdmin, company.CreateCompanyDTO{
				Name:         "Copy",
				TaxID:        alpha.TaxID,
				BusinessType: "other",
				ParentID:     &missing,
			})
			Expect(fieldCodes(err)).To(Equal(map[string]string{
				"tax_id": string(errors.ErrCodeDuplicateTaxID),
				"parent": string(errors.ErrCodeUnknownCompany),
			}))
		})

		It("should validate the tax id format", func() {
			_, err := service.Create(ctx, superAdmin, company.CreateCompanyDTO{Name: "Short", TaxID: "123", BusinessType: "other"})
			Expect(fieldCodes(err)).To(HaveKey("tax_id"))
		})

		It("should only accept a parent the admin can see", func() {
			_, err := service.Create(ctx, alphaAdmin, company.CreateCompanyDTO{
				Name: "Gamma Outpost", TaxID: "20000000010", BusinessType: "other", ParentID: &gamma.ID,
			})
			Expect(fieldCodes(err)).To(Equal(map[string]string{"parent": string(errors.ErrCodeUnknownCompany)}))

			c, err := service.Create(ctx, alphaAdmin, company.CreateCompanyDTO{
				Name: "Alpha Outpost", TaxID: "20000000011", BusinessType: "other", ParentID: &alpha.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*c.ParentID).To(Equal(alpha.ID))
		})

		It("should forbid employees", func() {
			_, err := service.Create(ctx, alphaEmployee, company.CreateCompanyDTO{Name: "X", TaxID: "20000000009", BusinessType: "other"})
			Expect(err).To(MatchError(access.ErrForbidden))
		})
	})

	Describe("Update", func() {
		It("should keep the tax id immutable", func() {
			changed := "20000000099"
			_, err := service.Update(ctx, alphaAdmin, alpha.ID, company.UpdateCompanyDTO{TaxID: &changed})
			Expect(fieldCodes(err)).To(Equal(map[string]string{"tax_id": string(errors.ErrCodeImmutableField)}))

			same := alpha.TaxID
			name := "Alpha Renamed"
			c, err := service.Update(ctx, alphaAdmin, alpha.ID, company.UpdateCompanyDTO{TaxID: &same, Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name).To(Equal("Alpha Renamed"))
			Expect(c.TaxID).To(Equal(alpha.TaxID))
		})

		It("should reject a company as its own parent", func() {
			_, err := service.Update(ctx, superAdmin, alpha.ID, company.UpdateCompanyDTO{ParentID: nullable.Of(alpha.ID)})
			Expect(fieldCodes(err)).To(Equal(map[string]string{"parent": string(errors.ErrCodeInvalidField)}))
		})

		It("should reject a descendant as the new parent", func() {
			sub := create("Alpha Sub Branch", "20000000004", &branch.ID)

			_, err := service.Update(ctx, superAdmin, alpha.ID, company.UpdateCompanyDTO{ParentID: nullable.Of(branch.ID)})
			Expect(fieldCodes(err)).To(Equal(map[string]string{"parent": string(errors.ErrCodeInvalidField)}))

			_, err = service.Update(ctx, superAdmin, alpha.ID, company.UpdateCompanyDTO{ParentID: nullable.Of(sub.ID)})
			Expect(fieldCodes(err)).To(Equal(map[string]string{"parent": string(errors.ErrCodeInvalidField)}))

			c, err := service.Get(ctx, superAdmin, alpha.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ParentID).To(BeNil())

			Expect(service.Delete(ctx, superAdmin, alpha.ID)).To(Succeed())
			_, err = service.Get(ctx, superAdmin, sub.ID)
			Expect(err).To(MatchError(errors.ErrCompanyNotFound))
		})

		It("should move a company under an unrelated root", func() {
			c, err := service.Update(ctx, superAdmin, alpha.ID, company.UpdateCompanyDTO{ParentID: nullable.Of(gamma.ID)})
			Expect(err).NotTo(HaveOccurred())
			Expect(*c.ParentID).To(Equal(gamma.ID))
		})

		It("should not let an admin attach its company to another tenant", func() {
			_, err := service.Update(ctx, alphaAdmin, branch.ID, company.UpdateCompanyDTO{ParentID: nullable.Of(gamma.ID)})
			Expect(fieldCodes(err)).To(Equal(map[string]string{"parent": string(errors.ErrCodeUnknownCompany)}))

			c, err := service.Get(ctx, superAdmin, gamma.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Branches).To(BeEmpty())
		})

		It("should detach a branch when parent is null", func() {
			c, err := service.Update(ctx, superAdmin, branch.ID, company.UpdateCompanyDTO{ParentID: nullable.Null()})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ParentID).To(BeNil())

			companies, _, err := service.List(ctx, alphaAdmin, company.ListFilter{}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(companies).To(HaveLen(1))
		})

		It("should not find companies outside the scope", func() {
			name := "Stolen"
			_, err := service.Update(ctx, alphaAdmin, gamma.ID, company.UpdateCompanyDTO{Name: &name})
			Expect(err).To(MatchError(errors.ErrCompanyNotFound))
		})
	})

	Describe("Delete", func() {
		It("should delete the branch tree and publish an event", func() {
			Expect(service.Delete(ctx, alphaAdmin, alpha.ID)).To(Succeed())

			_, err := service.Get(ctx, superAdmin, branch.ID)
			Expect(err).To(MatchError(errors.ErrCompanyNotFound))

			Expect(publisher.events).To(HaveLen(1))
			deleted, ok := publisher.events[0].(*events.CompanyDeletedEvent)
			Expect(ok).To(BeTrue())
			Expect(deleted.CompanyID).To(Equal(alpha.ID))
			Expect(deleted.ActorID).To(Equal(alphaAdmin.ID))
		})

		It("should not delete companies of other tenants", func() {
			Expect(service.Delete(ctx, alphaAdmin, gamma.ID)).To(MatchError(errors.ErrCompanyNotFound))
			Expect(publisher.events).To(BeEmpty())
		})
	})
})
