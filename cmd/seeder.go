package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/frahmantamala/business-management/internal/access"
	companyDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/company"
	locationDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/location"
	userDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/user"
	"github.com/frahmantamala/business-management/internal/user"
	"github.com/frahmantamala/business-management/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		initLogger(cfg)

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			return fmt.Errorf("failed to init gorm: %w", err)
		}

		seeder := &Seeder{
			DB:     gdb,
			Hasher: user.NewBcryptHasher(cfg.Security.BCryptCost),
			Logger: logger.LoggerWrapper(),
		}
		return seeder.Run(cmd.Context(), clearData)
	},
}

type seedCompany struct {
	key      string
	parent   string
	name     string
	taxID    string
	address  string
	phone    string
	email    string
	plan     string
	business string
}

type seedUser struct {
	email     string
	username  string
	firstName string
	lastName  string
	password  string
	phone     string
	role      access.Role
	company   string
}

type seedLocation struct {
	company   string
	name      string
	address   string
	warehouse bool
}

var sampleCompanies = []seedCompany{
	{key: "techcorp", name: "TechCorp Solutions SAC", taxID: "20123456789", address: "Av. Javier Prado Este 4200, San Isidro, Lima", phone: "+51-1-4567890", email: "contacto@techcorp.com.pe", plan: "premium", business: "other"},
	{key: "andina", name: "Comercial Andina EIRL", taxID: "20987654321", address: "Jr. Lampa 545, Cercado de Lima, Lima", phone: "+51-1-7654321", email: "ventas@comercialandina.pe", plan: "basic", business: "other"},
	{key: "sur", name: "Servicios Integrales del Sur SA", taxID: "20456789123", address: "Av. El Sol 123, Wanchaq, Cusco", phone: "+51-84-123456", email: "info@serviciosur.com", plan: "standard", business: "other"},
	{key: "miraflores", parent: "techcorp", name: "TechCorp - Sucursal Miraflores", taxID: "20123456790", address: "Av. Larco 1301, Miraflores, Lima", phone: "+51-1-4567891", email: "miraflores@techcorp.com.pe", plan: "premium", business: "other"},
}

var sampleUsers = []seedUser{
	{email: "superadmin@example.com", username: "superadmin", firstName: "Super", lastName: "Administrator", password: "admin123", phone: "+51999000001", role: access.RoleSuperAdmin},
	{email: "admin@techcorp.com.pe", username: "carlos_techcorp", firstName: "Carlos", lastName: "Mendoza", password: "admin123", phone: "+51999000002", role: access.RoleAdmin, company: "techcorp"},
	{email: "admin@comercialandina.pe", username: "maria_andina", firstName: "María", lastName: "García", password: "admin123", phone: "+51999000003", role: access.RoleAdmin, company: "andina"},
	{email: "juan.perez@techcorp.com.pe", username: "juan_perez", firstName: "Juan", lastName: "Pérez", password: "employee123", phone: "+51999000010", role: access.RoleEmployee, company: "techcorp"},
	{email: "pedro.silva@comercialandina.pe", username: "pedro_silva", firstName: "Pedro", lastName: "Silva", password: "employee123", phone: "+51999000012", role: access.RoleEmployee, company: "andina"},
}

var sampleLocations = []seedLocation{
	{company: "techcorp", name: "Almacén Principal TechCorp", address: "Av. Javier Prado Este 4200 - Almacén A, San Isidro", warehouse: true},
	{company: "andina", name: "Tienda Principal Andina", address: "Jr. Lampa 545 - Local 1, Cercado de Lima"},
}

// Seeder loads the sample tenants. Running it twice leaves the data unchanged.
type Seeder struct {
	DB     *gorm.DB
	Hasher user.PasswordHasher
	Logger *slog.Logger
}

func (s *Seeder) Run(ctx context.Context, clear bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clear {
			if err := s.clear(tx); err != nil {
				return err
			}
		}

		companies := make(map[string]int64, len(sampleCompanies))
		for _, sc := range sampleCompanies {
			row := companyDatamodel.Company{
				Name:             sc.name,
				Address:          sc.address,
				Phone:            sc.phone,
				Email:            sc.email,
				SubscriptionPlan: sc.plan,
				BusinessType:     sc.business,
			}
			if sc.parent != "" {
				parentID := companies[sc.parent]
				row.ParentID = &parentID
			}
			if err := tx.Where(companyDatamodel.Company{TaxID: sc.taxID}).Attrs(row).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed company %s: %w", sc.taxID, err)
			}
			companies[sc.key] = row.ID
			s.Logger.Info("seeded company", "id", row.ID, "name", row.Name)
		}

		for _, su := range sampleUsers {
			hash, err := s.Hasher.Hash(su.password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			row := userDatamodel.User{
				Username:     su.username,
				FirstName:    su.firstName,
				LastName:     su.lastName,
				Phone:        su.phone,
				PasswordHash: hash,
				Role:         string(su.role),
				Active:       true,
			}
			if su.company != "" {
				companyID := companies[su.company]
				row.CompanyID = &companyID
			}
			if err := tx.Where(userDatamodel.User{Email: su.email}).Attrs(row).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", su.email, err)
			}
			s.Logger.Info("seeded user", "id", row.ID, "email", su.email, "role", row.Role)
		}

		for _, sl := range sampleLocations {
			row := locationDatamodel.Location{
				Address:            sl.address,
				IsPrimaryWarehouse: sl.warehouse,
			}
			where := locationDatamodel.Location{CompanyID: companies[sl.company], Name: sl.name}
			if err := tx.Where(where).Attrs(row).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed location %s: %w", sl.name, err)
			}
			s.Logger.Info("seeded location", "id", row.ID, "name", row.Name)
		}

		return nil
	})
}

func (s *Seeder) clear(tx *gorm.DB) error {
	for _, model := range []interface{}{&userDatamodel.User{}, &locationDatamodel.Location{}, &companyDatamodel.Company{}} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
	}
	s.Logger.Info("cleared existing data")
	return nil
}
