package entities

import "time"

// Branch - подразделение, от имени которого действует пользователь.
type Branch string

const (
	BranchAdmin       Branch = "admin"
	BranchProcurement Branch = "procurement"
	BranchAssets      Branch = "assets"
	BranchTransport   Branch = "transport"
	BranchFinance     Branch = "finance"
	BranchControl     Branch = "control"
	BranchInvoice     Branch = "invoice"
	BranchSuperAdmin  Branch = "super_admin"
)

// BranchNames - отображаемые названия, как они приняты в ведомстве.
var BranchNames = map[Branch]string{
	BranchAdmin:       "مدیریت اداری",
	BranchProcurement: "مدیریت تدارکات",
	BranchAssets:      "مدیریت محاسبه اجناس",
	BranchTransport:   "مدیریت ترانسپورت",
	BranchFinance:     "مدیریت مالی",
	BranchControl:     "مدیریت کنترول",
	BranchInvoice:     "شعبه انوایس",
	BranchSuperAdmin:  "مدیریت کل",
}

// AllBranches в порядке меню.
var AllBranches = []Branch{
	BranchAdmin, BranchProcurement, BranchAssets, BranchTransport,
	BranchFinance, BranchControl, BranchInvoice, BranchSuperAdmin,
}

func (b Branch) IsKnown() bool {
	_, ok := BranchNames[b]
	return ok
}

func (b Branch) String() string { return string(b) }

// BranchInfo - строка справочника branches.
type BranchInfo struct {
	Code      Branch    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
