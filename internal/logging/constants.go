package logging

// Standardized field names for structured logging.
const (
	FieldFile         = "file_path"
	FieldInputFile    = "input_file"
	FieldOutputFile   = "output_file"
	FieldRunID        = "run_id"
	FieldLine         = "line"
	FieldFieldCount   = "field_count"
	FieldMessageType  = "message_type"
	FieldDateFormat   = "date_format"
	FieldAccount      = "account"
	FieldPage         = "page"
	FieldCount        = "count"
	FieldMessages     = "messages"
	FieldPages        = "pages"
	FieldTransactions = "transactions"
	FieldOperation    = "operation"
	FieldComponent    = "component"
	FieldStatus       = "status"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
)
