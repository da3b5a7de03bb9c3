package log

// Field names shared by every component.
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldAccountID     = "account_id"
	FieldAmount        = "amount"
	FieldType          = "type"
	FieldCategory      = "category"
	FieldRuleID        = "rule_id"
	FieldFrequency     = "frequency"
	FieldGoalID        = "goal_id"
	FieldGenerated     = "generated"
	FieldReference     = "reference_time"
	FieldKey           = "key"
	FieldCount         = "count"
)

const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentScheduler = "scheduler"
	ComponentBudget    = "budget"
	ComponentGoals     = "goals"
	ComponentCodec     = "codec"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentSheets    = "sheets"
	ComponentTrace     = "trace"
)

const (
	OpAddTransaction    = "add_transaction"
	OpDeleteTransaction = "delete_transaction"
	OpAddAccount        = "add_account"
	OpUpdateAccount     = "update_account"
	OpDeleteAccount     = "delete_account"
	OpAddRule           = "add_rule"
	OpUpdateRule        = "update_rule"
	OpDeleteRule        = "delete_rule"
	OpTick              = "recurring_tick"
	OpAddGoal           = "add_goal"
	OpUpdateGoal        = "update_goal"
	OpDeleteGoal        = "delete_goal"
	OpContribute        = "contribute"
	OpSetBudget         = "set_budget"
	OpSettings          = "update_settings"
	OpImport            = "import"
	OpExport            = "export"
	OpClear             = "clear_all"
	OpLoad              = "load"
	OpSave              = "save"
	OpPublish           = "publish"
	OpStartup           = "startup"
	OpShutdown          = "shutdown"
)
