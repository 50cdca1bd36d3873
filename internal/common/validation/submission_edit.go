package validation

// SubmissionEditSchema describes the fields an operator may change on a
// submission. Every field is optional but at least one must be present.
const SubmissionEditSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "minProperties": 1,
  "additionalProperties": false,
  "properties": {
    "intention":     {"type": "string", "maxLength": 200},
    "address":       {"type": "string", "maxLength": 500},
    "email":         {"type": "string", "format": "email"},
    "franchise":     {"type": "string", "maxLength": 100},
    "backup_phone":  {"type": "string", "pattern": "^[0-9+\\- ]{7,20}$"},
    "coupon_used":   {"type": "boolean"},
    "agree_privacy": {"type": "boolean"},
    "confirm_info":  {"type": "boolean"},
    "litigation":    {"type": "string", "maxLength": 200},
    "status": {
      "type": "string",
      "enum": ["APPLIED", "UNDER_REVIEW", "REVIEW_DONE", "LAWSUIT_IN_PROGRESS", "FINISHED", "CANCELED"]
    },
    "stores": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name":   {"type": "string", "minLength": 1},
          "period": {"type": "string"}
        }
      }
    },
    "applicants": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name":        {"type": "string", "minLength": 1},
          "phone":       {"type": "string"},
          "national_id": {"type": "string"},
          "address":     {"type": "string"}
        }
      }
    }
  }
}`

var submissionEdit = MustCompile(SubmissionEditSchema)

// ValidateSubmissionEdit checks an edit payload against SubmissionEditSchema.
func ValidateSubmissionEdit(payload map[string]interface{}) (*ValidationResult, error) {
	return submissionEdit.Validate(payload)
}
