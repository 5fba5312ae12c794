package respond

import "regexp"

var (
	// The Anthropic pattern must run before the generic "sk-" one.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9\-_]{10,}`)
	hfTokenPattern      = regexp.MustCompile(`hf_[a-zA-Z0-9]{10,}`)
	bearerPattern       = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-_.]+`)

	// credentials embedded in URLs, e.g. an OLLAMA_HOST with userinfo
	userinfoPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)
)

// SanitizeError returns err's message with API keys and passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = hfTokenPattern.ReplaceAllString(msg, "hf_****")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	msg = userinfoPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
