package models

// Category types. The type of an emitted transaction always follows the sign of its amount.
const (
	CategoryTypeIncome   = "income"
	CategoryTypeExpenses = "expenses"
)

// CategoryOther is assigned when no keyword matches a description.
const CategoryOther = "Other"

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
