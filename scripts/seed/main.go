// Command seed provisions a demo company with a small set of masters and
// vouchers. It talks to the database directly through the same services the
// API uses, so the seeded books obey every posting rule.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/insuite-dev/insuite/internal/app"
	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/company"
	"github.com/insuite-dev/insuite/internal/inventory"
	"github.com/insuite-dev/insuite/internal/platform/db"
	"github.com/insuite-dev/insuite/internal/shared"
	"github.com/insuite-dev/insuite/internal/users"
	"github.com/insuite-dev/insuite/internal/vouchers"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Default().Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	audit := shared.NewAuditLogger(pool)
	companySvc := company.NewService(company.NewRepository(pool), audit)
	coaSvc := coa.NewService(coa.NewRepository(pool), audit)
	inventorySvc := inventory.NewService(inventory.NewRepository(pool), audit)
	voucherSvc := vouchers.NewService(vouchers.NewRepository(pool), audit, nil)
	userSvc := users.NewService(users.NewRepository(pool), audit)

	created, err := companySvc.Create(ctx, company.CreateCompanyRequest{
		Name:               "Demo Traders",
		State:              "Karnataka",
		BooksBeginningDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return err
	}
	logger.Info("company created", slog.Int64("id", created.ID))

	years, err := companySvc.ListFinancialYears(ctx, created.ID)
	if err != nil {
		return err
	}
	if len(years) == 0 {
		return fmt.Errorf("company %d has no financial year", created.ID)
	}
	fy := years[0]

	groups, err := coaSvc.ListGroups(ctx, created.ID)
	if err != nil {
		return err
	}
	groupID := func(name string) (int64, error) {
		for _, g := range groups {
			if strings.EqualFold(g.Name, name) {
				return g.ID, nil
			}
		}
		return 0, fmt.Errorf("seeded group %q not found", name)
	}

	debtorsID, err := groupID("Sundry Debtors")
	if err != nil {
		return err
	}
	dutiesID, err := groupID("Duties & Taxes")
	if err != nil {
		return err
	}

	customer, err := coaSvc.CreateLedger(ctx, coa.CreateLedgerRequest{
		CompanyID: created.ID, Name: "Sharma Retail", GroupID: debtorsID, BalanceType: coa.SideDr,
	})
	if err != nil {
		return err
	}
	cgst, err := coaSvc.CreateLedger(ctx, coa.CreateLedgerRequest{
		CompanyID: created.ID, Name: "Output CGST", GroupID: dutiesID, BalanceType: coa.SideCr,
	})
	if err != nil {
		return err
	}
	sgst, err := coaSvc.CreateLedger(ctx, coa.CreateLedgerRequest{
		CompanyID: created.ID, Name: "Output SGST", GroupID: dutiesID, BalanceType: coa.SideCr,
	})
	if err != nil {
		return err
	}

	ledgers, err := coaSvc.ListLedgers(ctx, coa.ListLedgersFilter{CompanyID: created.ID})
	if err != nil {
		return err
	}
	ledgerID := func(name string) (int64, error) {
		for _, l := range ledgers {
			if strings.EqualFold(l.Name, name) {
				return l.ID, nil
			}
		}
		return 0, fmt.Errorf("ledger %q not found", name)
	}
	cashID, err := ledgerID("Cash")
	if err != nil {
		return err
	}
	salesID, err := ledgerID("Sales Account")
	if err != nil {
		return err
	}

	stockGroups, err := inventorySvc.ListStockGroups(ctx, created.ID)
	if err != nil {
		return err
	}
	units, err := inventorySvc.ListUnits(ctx, created.ID)
	if err != nil {
		return err
	}
	if len(stockGroups) == 0 || len(units) == 0 {
		return fmt.Errorf("company %d missing seeded inventory masters", created.ID)
	}
	item, err := inventorySvc.CreateStockItem(ctx, inventory.CreateStockItemRequest{
		CompanyID:    created.ID,
		Name:         "Widget",
		StockGroupID: stockGroups[0].ID,
		UnitID:       units[0].ID,
		GSTRate:      18,
		Rate:         100,
	})
	if err != nil {
		return err
	}

	items, totals := voucherSvc.Derive([]vouchers.InvoiceLine{
		{StockItemID: item.ID, Quantity: 10, Rate: 100, GSTRate: 18},
	}, false)
	invoice, err := voucherSvc.Post(ctx, vouchers.PostingInput{
		CompanyID:     created.ID,
		FinancialYear: fy.ID,
		Type:          vouchers.TypeSales,
		Date:          time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		Narration:     "Demo sales invoice",
		PartyLedgerID: &customer.ID,
		Entries: []vouchers.EntryInput{
			{LedgerID: customer.ID, Side: coa.SideDr, Amount: totals.GrandTotal},
			{LedgerID: salesID, Side: coa.SideCr, Amount: totals.TaxableValue},
			{LedgerID: cgst.ID, Side: coa.SideCr, Amount: totals.CGST},
			{LedgerID: sgst.ID, Side: coa.SideCr, Amount: totals.SGST},
		},
		Items: items,
	})
	if err != nil {
		return err
	}
	logger.Info("sales invoice posted",
		slog.Int64("voucher_id", invoice.ID),
		slog.Int64("number", invoice.Number),
		slog.Float64("grand_total", totals.GrandTotal))

	receipt, err := voucherSvc.Post(ctx, vouchers.PostingInput{
		CompanyID:     created.ID,
		FinancialYear: fy.ID,
		Type:          vouchers.TypeReceipt,
		Date:          time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC),
		Narration:     "Part payment against invoice 1",
		Entries: []vouchers.EntryInput{
			{LedgerID: cashID, Side: coa.SideDr, Amount: 500},
			{LedgerID: customer.ID, Side: coa.SideCr, Amount: 500},
		},
	})
	if err != nil {
		return err
	}
	logger.Info("receipt posted", slog.Int64("voucher_id", receipt.ID))

	if _, err := userSvc.Create(ctx, users.CreateUserRequest{
		CompanyID: created.ID,
		Email:     "admin@demo.test",
		Name:      "Demo Admin",
		Role:      string(users.RoleAdmin),
		Password:  "demo-admin-password",
	}); err != nil {
		return err
	}
	logger.Info("seed complete", slog.Int64("company_id", created.ID))
	return nil
}
