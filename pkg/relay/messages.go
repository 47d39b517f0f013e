package relay

// Response messages returned to the caller.
const (
	MsgMethodNotAllowed = "Method Not Allowed. Only POST requests are accepted."
	MsgAPIKeyMissing    = "Server configuration error: API key missing."
	MsgInvalidJSON      = "Invalid JSON payload."
	MsgMissingPrompt    = "Missing prompt in request body."

	externalErrorPrefix = "External API Error: "
	internalErrorPrefix = "Internal server error: "
)

// Invocation outcomes, used as the metrics "outcome" label and span attribute.
const (
	OutcomeSuccess          = "success"
	OutcomeMethodNotAllowed = "method_not_allowed"
	OutcomeConfigError      = "config_error"
	OutcomeInvalidJSON      = "invalid_json"
	OutcomeMissingPrompt    = "missing_prompt"
	OutcomeUpstreamError    = "upstream_error"
	OutcomeInternalError    = "internal_error"
)

// Upstream error kinds, used as the metrics "type" label.
const (
	errorTypeAPI       = "api_error"
	errorTypeParse     = "parse_error"
	errorTypeShape     = "response_shape_error"
	errorTypeTransport = "transport_error"
	errorTypeUnknown   = "unknown"
)

// Defaults for Options.
const (
	DefaultModel          = "mistralai/mistral-7b-instruct-v0.2"
	DefaultSystemPrompt   = "You are a friendly, concise, and helpful Netlify chat bot powered by OpenRouter. Respond briefly."
	DefaultAppTitle       = "Netlify Chat Demo App"
	DefaultCredentialName = "AIunclesamAPIkey"
	DefaultMaxBodyBytes   = 1 << 20
)

// HeaderAllowOrigin is set on successful responses.
const HeaderAllowOrigin = "Access-Control-Allow-Origin"
