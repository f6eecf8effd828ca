package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldUserID      = "user_id"
	FieldUsername    = "username"
	FieldRecordID    = "record_id"
	FieldDocument    = "document"
	FieldCategory    = "category"
	FieldAmount      = "amount"
	FieldMonth       = "month"
	FieldBillType    = "bill_type"
	FieldRowCount    = "rows"
	FieldPath        = "path"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStore   = "store"
	ComponentLedger  = "ledger"
	ComponentBills   = "bills"
	ComponentBudget  = "budget"
	ComponentReports = "reports"
	ComponentUsers   = "users"
	ComponentExport  = "export"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpValidate = "validate"
	OpImport   = "import"
	OpExport   = "export"
)
