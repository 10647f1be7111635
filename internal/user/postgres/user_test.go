package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/business-management/internal/access"
	companyDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/company"
	"github.com/frahmantamala/business-management/internal/core/datamodel/sqlitetest"
	userDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/user"
	"github.com/frahmantamala/business-management/internal/transport"
	"github.com/frahmantamala/business-management/internal/user"
	userPostgres "github.com/frahmantamala/business-management/internal/user/postgres"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User PostgreSQL Repository", func() {
	var (
		ctx    context.Context
		db     *gorm.DB
		sqlxDB *sqlx.DB
		repo   user.RepositoryAPI

		alpha, branch                  companyDatamodel.Company
		root, admin, staff, branchUser *userDatamodel.User
		params                         transport.ListParams
	)

	newUser := func(email, role string, companyID *int64) *userDatamodel.User {
		u := &userDatamodel.User{Email: email, Username: email, PasswordHash: "hash", Role: role, CompanyID: companyID, Active: true}
		Expect(repo.Create(ctx, u)).To(Succeed())
		return u
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, sqlxDB, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = userPostgres.NewUserRepository(db, sqlxDB)

		alpha = companyDatamodel.Company{Name: "Alpha", TaxID: "20000000001", BusinessType: "other"}
		Expect(db.Create(&alpha).Error).To(Succeed())
		branch = companyDatamodel.Company{Name: "Alpha Branch", TaxID: "20000000002", BusinessType: "other", ParentID: &alpha.ID}
		Expect(db.Create(&branch).Error).To(Succeed())

		root = newUser("root@example.com", "super_admin", nil)
		admin = newUser("admin@alpha.test", "admin", &alpha.ID)
		staff = newUser("staff@alpha.test", "employee", &alpha.ID)
		branchUser = newUser("staff@branch.test", "employee", &branch.ID)

		params = transport.ListParams{Ordering: transport.Ordering{Field: "email"}, Limit: transport.DefaultLimit}
	})

	identity := func(u *userDatamodel.User) *access.Identity {
		return &access.Identity{ID: u.ID, Role: access.Role(u.Role), TenantID: u.CompanyID, Active: u.Active}
	}

	Describe("List", func() {
		It("should show an admin the users of its own company only", func() {
			rows, count, err := repo.List(ctx, access.UserScope(identity(admin)), user.ListFilter{}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
			Expect(rows[0].Email).To(Equal("admin@alpha.test"))
			Expect(rows[1].Email).To(Equal("staff@alpha.test"))
		})

		It("should show an employee only itself", func() {
			rows, count, err := repo.List(ctx, access.UserScope(identity(staff)), user.ListFilter{}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
			Expect(rows[0].ID).To(Equal(staff.ID))
		})

		It("should filter by role and search by name", func() {
			rows, _, err := repo.List(ctx, access.UserScope(identity(root)), user.ListFilter{Role: "employee"}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))

			params.Search = "BRANCH"
			rows, _, err = repo.List(ctx, access.UserScope(identity(root)), user.ListFilter{}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].ID).To(Equal(branchUser.ID))
		})

		It("should hide deactivated users", func() {
			Expect(repo.SetActive(ctx, staff.ID, false)).To(Succeed())

			_, count, err := repo.List(ctx, access.UserScope(identity(admin)), user.ListFilter{}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("GetByID", func() {
		It("should find deactivated users when inactive rows are included", func() {
			Expect(repo.SetActive(ctx, staff.ID, false)).To(Succeed())

			u, err := repo.GetByID(ctx, access.UserScope(identity(admin)), staff.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(u).To(BeNil())

			u, err = repo.GetByID(ctx, access.UserScope(identity(admin)).WithInactive(), staff.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(u).NotTo(BeNil())
			Expect(u.Active).To(BeFalse())
		})
	})

	Describe("GetByEmail and EmailExists", func() {
		It("should match case-insensitively", func() {
			u, err := repo.GetByEmail(ctx, "ADMIN@alpha.test")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).To(Equal(admin.ID))

			Expect(repo.EmailExists(ctx, "Staff@Alpha.test")).To(BeTrue())
			Expect(repo.EmailExists(ctx, "nobody@alpha.test")).To(BeFalse())
		})
	})

	Describe("CompanyNames", func() {
		It("should map ids to names", func() {
			names, err := repo.CompanyNames(ctx, []int64{alpha.ID, branch.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal(map[int64]string{alpha.ID: "Alpha", branch.ID: "Alpha Branch"}))
		})
	})

	Describe("Transaction", func() {
		It("should commit password changes", func() {
			err := repo.Transaction(ctx, func(tx user.RepositoryAPI) error {
				u, err := tx.GetForUpdate(ctx, staff.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(u).NotTo(BeNil())
				return tx.UpdatePassword(ctx, staff.ID, "new-hash")
			})
			Expect(err).NotTo(HaveOccurred())

			u, err := repo.GetByEmail(ctx, staff.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.PasswordHash).To(Equal("new-hash"))
		})

		It("should roll back when the callback fails", func() {
			err := repo.Transaction(ctx, func(tx user.RepositoryAPI) error {
				Expect(tx.UpdatePassword(ctx, staff.ID, "new-hash")).To(Succeed())
				return errors.New("abort")
			})
			Expect(err).To(MatchError("abort"))

			u, err := repo.GetByEmail(ctx, staff.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.PasswordHash).To(Equal("hash"))
		})
	})

	Describe("Stats", func() {
		It("should count the whole population for a super admin, inactive included", func() {
			Expect(repo.SetActive(ctx, staff.ID, false)).To(Succeed())

			stats, err := repo.Stats(ctx, access.UserScope(identity(root)).WithInactive())
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(4)))
			Expect(stats.Active).To(Equal(int64(3)))
			Expect(stats.Inactive).To(Equal(int64(1)))
			Expect(stats.ByRole.SuperAdmin).To(Equal(int64(1)))
			Expect(stats.ByRole.Admin).To(Equal(int64(1)))
			Expect(stats.ByRole.Employee).To(Equal(int64(2)))
		})

		It("should restrict an admin to its tenant", func() {
			stats, err := repo.Stats(ctx, access.UserScope(identity(admin)).WithInactive())
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(2)))
			Expect(stats.ByRole.SuperAdmin).To(BeZero())
		})
	})

	Describe("Delete", func() {
		It("should remove the row", func() {
			Expect(repo.Delete(ctx, branchUser.ID)).To(Succeed())
			Expect(repo.EmailExists(ctx, branchUser.Email)).To(BeFalse())
		})
	})
})
