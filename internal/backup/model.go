package backup

import (
	"time"

	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/company"
	"github.com/insuite-dev/insuite/internal/inventory"
	"github.com/insuite-dev/insuite/internal/users"
	"github.com/insuite-dev/insuite/internal/vouchers"
)

// ArchiveVersion is bumped whenever the payload layout changes.
const ArchiveVersion = 1

// Archive is the decrypted JSON payload of a backup file. Row IDs are the
// exporting database's IDs; the importer re-keys everything.
type Archive struct {
	Version        int                     `json:"version"`
	ExportID       string                  `json:"export_id"`
	ExportedAt     time.Time               `json:"exported_at"`
	Company        company.Company         `json:"company"`
	FinancialYears []company.FinancialYear `json:"financial_years"`
	LedgerGroups   []coa.LedgerGroup       `json:"ledger_groups"`
	Ledgers        []coa.Ledger            `json:"ledgers"`
	StockGroups    []inventory.StockGroup  `json:"stock_groups"`
	Units          []inventory.Unit        `json:"units"`
	StockItems     []inventory.StockItem   `json:"stock_items"`
	Vouchers       []vouchers.Voucher      `json:"vouchers"`
	Users          []ArchiveUser           `json:"users,omitempty"`
}

// ArchiveUser carries the password hash, which the API user model hides.
type ArchiveUser struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         users.Role `json:"role"`
	PasswordHash string     `json:"password_hash"`
	IsActive     bool       `json:"is_active"`
}

// Log is one row in backup_logs.
type Log struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	ExportID  string    `json:"export_id"`
	Kind      string    `json:"kind"` // export or import
	FileName  string    `json:"file_name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
