// internal/submission/schema.go
package submission

import "inverter-savings/internal/common/validation"

const leadPayloadSchema = `{
  "type": "object",
  "required": ["leadId", "submittedAt", "source", "company", "consumption", "projectedSavings", "contact", "leadScore", "priority"],
  "properties": {
    "leadId": {"type": "string", "pattern": "^LEAD-[0-9]+-[A-Z0-9]{9}$"},
    "submittedAt": {"type": "string", "minLength": 1},
    "source": {"type": "string", "minLength": 1},
    "company": {
      "type": "object",
      "required": ["name", "officeSize", "acUnits", "currentACType"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "officeSize": {"type": "integer", "minimum": 0},
        "acUnits": {"type": "integer", "minimum": 1},
        "currentACType": {"type": "string", "enum": ["NON_INVERTER", "OLD_INVERTER"]}
      }
    },
    "consumption": {
      "type": "object",
      "required": ["monthlyBill", "operatingHours", "currentUsage", "projectedUsage"],
      "properties": {
        "monthlyBill": {"type": "number", "minimum": 0},
        "operatingHours": {"type": "integer", "minimum": 1, "maximum": 24},
        "currentUsage": {"type": "number", "minimum": 0},
        "projectedUsage": {"type": "number", "minimum": 0}
      }
    },
    "projectedSavings": {
      "type": "object",
      "required": ["monthly", "yearly", "fiveYear", "savingsPercentage", "co2Reduction"],
      "properties": {
        "monthly": {"type": "number", "minimum": 0},
        "yearly": {"type": "number", "minimum": 0},
        "fiveYear": {"type": "number", "minimum": 0},
        "savingsPercentage": {"type": "number", "minimum": 0, "maximum": 100},
        "co2Reduction": {"type": "number", "minimum": 0}
      }
    },
    "contact": {
      "type": "object",
      "required": ["email", "phone"],
      "properties": {
        "email": {"type": "string", "minLength": 3},
        "phone": {"type": "string", "minLength": 1}
      }
    },
    "leadScore": {"type": "integer", "minimum": 0, "maximum": 100},
    "priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]}
  }
}`

var payloadSchema = validation.MustCompileSchema(leadPayloadSchema)
