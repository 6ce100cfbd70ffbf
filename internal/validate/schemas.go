package validate

const stepsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"label": {"type": "string"},
			"completed": {"type": "boolean"}
		},
		"required": ["label", "completed"]
	}
}`

const statusEnum = `{"type": "string", "enum": ["pending", "processing", "approved", "rejected"]}`

// Request body schemas. These only check the envelope; form fields stay opaque.
var (
	CreateApplication = mustCompile("createApplication", `{
		"type": "object",
		"properties": {
			"serviceType": {"type": "string", "minLength": 1},
			"formData": {"type": "object"}
		},
		"required": ["serviceType"]
	}`)

	StatusUpdate = mustCompile("statusUpdate", `{
		"type": "object",
		"properties": {
			"status": `+statusEnum+`,
			"steps": `+stepsSchema+`
		},
		"required": ["status"]
	}`)

	ApplicationPatch = mustCompile("applicationPatch", `{
		"type": "object",
		"properties": {
			"status": `+statusEnum+`,
			"steps": `+stepsSchema+`,
			"formData": {"type": "object"},
			"paymentStatus": {"type": "string", "enum": ["pending", "completed", "failed"]},
			"transactionId": {"type": "string"},
			"paymentAmount": {"type": ["number", "string"]}
		},
		"additionalProperties": false,
		"minProperties": 1
	}`)

	Payment = mustCompile("payment", `{
		"type": "object",
		"properties": {
			"applicationId": {"type": "string", "minLength": 1},
			"paymentMethod": {"type": "string", "enum": ["e-wallet", "cash"]}
		},
		"required": ["applicationId"]
	}`)

	Login = mustCompile("login", `{
		"type": "object",
		"properties": {
			"email": {"type": "string"},
			"password": {"type": "string"}
		},
		"required": ["email", "password"]
	}`)

	Register = mustCompile("register", `{
		"type": "object",
		"properties": {
			"first_name": {"type": "string"},
			"last_name": {"type": "string"},
			"email": {"type": "string", "minLength": 3},
			"phone": {"type": "string"},
			"password": {"type": "string", "minLength": 1},
			"confirm_password": {"type": "string"}
		},
		"required": ["email", "password", "confirm_password"]
	}`)
)
