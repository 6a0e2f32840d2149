package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldBank        = "bank"
	FieldPage        = "page"
	FieldRow         = "row"
	FieldCategory    = "category"
	FieldKeyword     = "keyword"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldErrorKind   = "error_kind"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldDropped     = "rows_dropped"
	FieldDelimiter   = "delimiter"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldUserID      = "user_id"
	FieldImportID    = "import_id"
	FieldYearRange   = "year_range"
	FieldWorkers     = "workers"
	FieldDescription = "description"
)
