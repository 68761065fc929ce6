package company

import "github.com/insuite-dev/insuite/internal/coa"

// seedGroup describes one default ledger group. Parent references are by
// name; the seeder resolves them against rows inserted earlier in the same
// pass, so parents must precede children in the list.
type seedGroup struct {
	Name               string
	Parent             string
	Nature             coa.Nature
	AffectsGrossProfit bool
}

// defaultLedgerGroups is the fixed 27-record chart-of-accounts skeleton
// seeded into every new company.
var defaultLedgerGroups = []seedGroup{
	{Name: "Capital Account", Nature: coa.NatureEquity},
	{Name: "Reserves & Surplus", Parent: "Capital Account", Nature: coa.NatureEquity},
	{Name: "Loans (Liability)", Nature: coa.NatureLiabilities},
	{Name: "Secured Loans", Parent: "Loans (Liability)", Nature: coa.NatureLiabilities},
	{Name: "Unsecured Loans", Parent: "Loans (Liability)", Nature: coa.NatureLiabilities},
	{Name: "Bank OD A/c", Parent: "Loans (Liability)", Nature: coa.NatureLiabilities},
	{Name: "Current Liabilities", Nature: coa.NatureLiabilities},
	{Name: "Duties & Taxes", Parent: "Current Liabilities", Nature: coa.NatureLiabilities},
	{Name: "Provisions", Parent: "Current Liabilities", Nature: coa.NatureLiabilities},
	{Name: "Sundry Creditors", Parent: "Current Liabilities", Nature: coa.NatureLiabilities},
	{Name: "Fixed Assets", Nature: coa.NatureAssets},
	{Name: "Investments", Nature: coa.NatureAssets},
	{Name: "Current Assets", Nature: coa.NatureAssets},
	{Name: "Bank Accounts", Parent: "Current Assets", Nature: coa.NatureAssets},
	{Name: "Cash-in-Hand", Parent: "Current Assets", Nature: coa.NatureAssets},
	{Name: "Deposits (Asset)", Parent: "Current Assets", Nature: coa.NatureAssets},
	{Name: "Loans & Advances (Asset)", Parent: "Current Assets", Nature: coa.NatureAssets},
	{Name: "Stock-in-Hand", Parent: "Current Assets", Nature: coa.NatureAssets},
	{Name: "Sundry Debtors", Parent: "Current Assets", Nature: coa.NatureAssets},
	{Name: "Sales Accounts", Nature: coa.NatureIncome, AffectsGrossProfit: true},
	{Name: "Direct Income", Nature: coa.NatureIncome, AffectsGrossProfit: true},
	{Name: "Indirect Income", Nature: coa.NatureIncome},
	{Name: "Purchase Accounts", Nature: coa.NatureExpense, AffectsGrossProfit: true},
	{Name: "Direct Expenses", Nature: coa.NatureExpense, AffectsGrossProfit: true},
	{Name: "Indirect Expenses", Nature: coa.NatureExpense},
	{Name: "Misc. Expenses (Asset)", Nature: coa.NatureAssets},
	{Name: "Suspense A/c", Nature: coa.NatureLiabilities},
}

// defaultStockGroups is the fixed 8-record inventory grouping. Parent
// semantics match ledger groups.
var defaultStockGroups = []struct {
	Name   string
	Parent string
}{
	{Name: "Primary"},
	{Name: "Raw Materials", Parent: "Primary"},
	{Name: "Semi-Finished Goods", Parent: "Primary"},
	{Name: "Finished Goods", Parent: "Primary"},
	{Name: "Trading Goods", Parent: "Primary"},
	{Name: "Consumables", Parent: "Primary"},
	{Name: "Packing Materials", Parent: "Primary"},
	{Name: "Spares", Parent: "Primary"},
}

// defaultUnits is the fixed 9-record simple unit set.
var defaultUnits = []struct {
	Name          string
	Symbol        string
	DecimalPlaces int
}{
	{Name: "Numbers", Symbol: "Nos", DecimalPlaces: 0},
	{Name: "Pieces", Symbol: "Pcs", DecimalPlaces: 0},
	{Name: "Kilograms", Symbol: "Kg", DecimalPlaces: 3},
	{Name: "Grams", Symbol: "g", DecimalPlaces: 0},
	{Name: "Litres", Symbol: "L", DecimalPlaces: 3},
	{Name: "Millilitres", Symbol: "mL", DecimalPlaces: 0},
	{Name: "Metres", Symbol: "m", DecimalPlaces: 2},
	{Name: "Boxes", Symbol: "Box", DecimalPlaces: 0},
	{Name: "Dozens", Symbol: "Doz", DecimalPlaces: 0},
}

// bootstrapLedgers are created after the group seed, resolved by group name.
// A missing group name skips the ledger rather than failing company creation.
var bootstrapLedgers = []struct {
	Name  string
	Group string
}{
	{Name: "Cash", Group: "Cash-in-Hand"},
	{Name: "Sales Account", Group: "Direct Income"},
}
