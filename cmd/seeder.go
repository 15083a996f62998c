package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/ghost-payroll/internal/auth"
	anomalyDatamodel "github.com/frahmantamala/ghost-payroll/internal/core/datamodel/anomaly"
	fileuploadDatamodel "github.com/frahmantamala/ghost-payroll/internal/core/datamodel/fileupload"
	recordDatamodel "github.com/frahmantamala/ghost-payroll/internal/core/datamodel/record"
	"github.com/frahmantamala/ghost-payroll/internal/records"
	recordsPostgres "github.com/frahmantamala/ghost-payroll/internal/records/postgres"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedAccount  string
	clearData    bool
	seedTokenTTL time.Duration
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long: `Seed one account with a small workforce for development: two regular employees,
one who is marked present but never joins the Wi-Fi, and one who is paid without
attending. Prints a development token for the account.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		ctx := context.Background()
		if clearData {
			if err := clearAccount(ctx, gormDB, seedAccount); err != nil {
				log.Fatalf("failed to clear account %s: %v", seedAccount, err)
			}
			fmt.Println("Cleared existing data for account:", seedAccount)
		}

		repo := recordsPostgres.NewRecordRepository(gormDB)
		if _, err := repo.GetEmployee(ctx, seedAccount, "EMP001"); err == nil {
			fmt.Println("account already seeded; use --clear to reseed:", seedAccount)
		} else if !errors.Is(err, records.ErrEmployeeNotFound) {
			log.Fatalf("failed to check existing data: %v", err)
		} else {
			if err := seedAccountData(ctx, repo, seedAccount, time.Now()); err != nil {
				log.Fatalf("failed to seed account %s: %v", seedAccount, err)
			}
			fmt.Println("Seeded demo workforce for account:", seedAccount)
		}

		token, err := auth.NewTokenService(cfg.Security.AccountTokenSecret, cfg.Security.TokenIssuer).Issue(seedAccount, seedTokenTTL)
		if err != nil {
			log.Fatalf("failed to issue development token: %v", err)
		}
		fmt.Printf("Development token (valid %s):\n%s\n", seedTokenTTL, token)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAccount, "account", "", "Account to seed")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().DurationVar(&seedTokenTTL, "token-ttl", 24*time.Hour, "Lifetime of the printed development token")
	_ = seedCmd.MarkFlagRequired("account")
}

func clearAccount(ctx context.Context, db *gorm.DB, accountID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&anomalyDatamodel.Anomaly{},
			&fileuploadDatamodel.FileUpload{},
			&recordDatamodel.WifiSession{},
			&recordDatamodel.SalaryPayment{},
			&recordDatamodel.AttendanceRecord{},
			&recordDatamodel.Employee{},
		} {
			if err := tx.Where("account_id = ?", accountID).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func seedAccountData(ctx context.Context, repo *recordsPostgres.RecordRepository, accountID string, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	hired := today.AddDate(-2, 0, 0)

	workforce := []*records.Employee{
		{EmployeeID: "EMP001", FirstName: "Alice", LastName: "Moreno", Email: strPtr("alice@example.com"), Department: strPtr("Engineering"), Position: strPtr("Engineer"), HireDate: &hired, Salary: floatPtr(6500)},
		{EmployeeID: "EMP002", FirstName: "Bayu", LastName: "Santoso", Email: strPtr("bayu@example.com"), Department: strPtr("Finance"), Position: strPtr("Analyst"), HireDate: &hired, Salary: floatPtr(5200)},
		{EmployeeID: "EMP003", FirstName: "Clara", LastName: "Voss", Email: strPtr("clara@example.com"), Department: strPtr("Operations"), Position: strPtr("Coordinator"), HireDate: &hired, Salary: floatPtr(4800)},
		{EmployeeID: "EMP004", FirstName: "Dimas", LastName: "Hakim", Email: strPtr("dimas@example.com"), Department: strPtr("Operations"), Position: strPtr("Supervisor"), HireDate: &hired, Salary: floatPtr(7100)},
	}
	for _, e := range workforce {
		e.AccountID = accountID
		if err := repo.CreateEmployee(ctx, e); err != nil {
			return fmt.Errorf("create employee %s: %w", e.EmployeeID, err)
		}
	}

	// EMP001 and EMP002 attend and connect; EMP003 attends without ever
	// connecting; EMP004 only shows up on payroll.
	for day := 1; day <= 20; day++ {
		date := today.AddDate(0, 0, -day)
		for _, id := range []string{"EMP001", "EMP002", "EMP003"} {
			timeIn := date.Add(9 * time.Hour)
			timeOut := date.Add(17 * time.Hour)
			if err := repo.CreateAttendance(ctx, &records.AttendanceRecord{
				AccountID: accountID, EmployeeID: id, Date: date,
				TimeIn: &timeIn, TimeOut: &timeOut, Status: records.AttendanceStatusPresent,
			}); err != nil {
				return fmt.Errorf("create attendance %s: %w", id, err)
			}
		}
		for i, id := range []string{"EMP001", "EMP002"} {
			start := date.Add(9*time.Hour + 5*time.Minute)
			end := date.Add(17 * time.Hour)
			if err := repo.CreateWifiSession(ctx, &records.WifiSession{
				AccountID: accountID, EmployeeID: id, SessionStart: start, SessionEnd: &end,
				DeviceMAC: strPtr(fmt.Sprintf("AA:BB:CC:00:00:0%d", i+1)),
				IPAddress: strPtr(fmt.Sprintf("10.0.0.%d", i+10)),
			}); err != nil {
				return fmt.Errorf("create wifi session %s: %w", id, err)
			}
		}
	}

	for _, e := range workforce {
		periodEnd := today.AddDate(0, 0, -today.Day())
		periodStart := periodEnd.AddDate(0, -1, 1)
		if err := repo.CreateSalaryPayment(ctx, &records.SalaryPayment{
			AccountID: accountID, EmployeeID: e.EmployeeID, PaymentDate: today.AddDate(0, 0, -3),
			Amount: *e.Salary, PayPeriodStart: periodStart, PayPeriodEnd: periodEnd,
		}); err != nil {
			return fmt.Errorf("create salary payment %s: %w", e.EmployeeID, err)
		}
	}

	return nil
}
