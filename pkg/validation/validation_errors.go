package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// Profile fields
	"FirstName":  "First name",
	"LastName":   "Last name",
	"Phone":      "Phone number",
	"AvatarURL":  "Avatar URL",
	"MarketArea": "Market area",
	"Brokerage":  "Brokerage",

	// Goal fields
	"Title":        "Goal title",
	"Type":         "Goal type",
	"Unit":         "Unit",
	"TargetValue":  "Target value",
	"CurrentValue": "Current value",
	"Timeframe":    "Timeframe",
	"Deadline":     "Deadline",
	"Status":       "Status",

	// Business plan fields
	"NetIncomeGoal":     "Net income goal",
	"AnnualExpenses":    "Annual expenses",
	"TaxRatePct":        "Tax rate",
	"AvgSalePrice":      "Average sale price",
	"CommissionRatePct": "Commission rate",
	"IncomeSplitPct":    "Income split",
	"BuyerSidePct":      "Buyer side share",

	// Onboarding fields
	"StepID":   "Step",
	"StepData": "Step data",

	// Chat fields
	"Message":        "Message",
	"ConversationID": "Conversation",
	"History":        "Conversation history",

	// Import fields
	"EntityType":    "Entity type",
	"CSVData":       "CSV data",
	"ColumnMapping": "Column mapping",

	// Gateway fields
	"Table":     "Table",
	"Operation": "Operation",
	"Limit":     "Limit",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, param)

	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "lt":
		return fmt.Sprintf("%s must be less than %s", label, param)

	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Split(param, " "), ", "))

	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)

	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)

	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces, and common punctuation (. ' - /)", label)

	case "valid_phone":
		return fmt.Sprintf("%s is not a valid phone number (7-15 digits, optional +)", label)

	case "no_emoji":
		return fmt.Sprintf("%s may not contain emoji or special symbols", label)

	case "valid_timeframe":
		return fmt.Sprintf("%s must be one of: weekly, monthly, quarterly, annual", label)

	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	// Return field name with spaces between camelCase words
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
