package cmd

import (
	"context"
	"fmt"
	"log"

	anomalyPostgres "github.com/frahmantamala/ghost-payroll/internal/anomaly/postgres"
	recordsPostgres "github.com/frahmantamala/ghost-payroll/internal/records/postgres"
	"github.com/spf13/cobra"
)

var scanAccount string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the anomaly scanner for one account",
	Long:  `Run both ghost-employee rules over the account's stored records and insert any anomalies found.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.DB.Close()

		scanner := newScanner(deps,
			recordsPostgres.NewRecordRepository(deps.Gorm),
			anomalyPostgres.NewAnomalyRepository(deps.Gorm))

		report, err := scanner.RunAnomalyDetection(context.Background(), scanAccount)
		deps.EventBus.Wait()
		if err != nil {
			log.Fatalf("scan failed for account %s: %v", scanAccount, err)
		}

		fmt.Printf("Scanned %d employees, emitted %d anomalies, %d insert failures (%s)\n",
			report.EmployeesScanned, report.AnomaliesEmitted, report.InsertFailures, report.Duration)
		for _, a := range report.Anomalies {
			fmt.Printf("  #%d %s %s risk=%d: %s\n", a.ID, a.EmployeeID, a.Type, a.RiskScore, a.Description)
		}
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanAccount, "account", "", "Account to scan")
	_ = scanCmd.MarkFlagRequired("account")
}
