package security

import (
	"fmt"
	"regexp"
)

const placeholder = "[REDACTED]"

type rule struct {
	name    string
	pattern *regexp.Regexp
}

// Secret patterns applied to diffs before they leave the machine.
var secretRules = []rule{
	{"openai key", regexp.MustCompile(`sk-[a-zA-Z0-9_\-]{20,}`)},
	{"anthropic key", regexp.MustCompile(`sk-ant-[a-zA-Z0-9_\-]{20,}`)},
	{"aws access key", regexp.MustCompile(`(?i)AKIA[0-9A-Z]{16}`)},
	{"bearer token", regexp.MustCompile(`(?i)(?:authorization|auth|token):\s*Bearer\s+[a-zA-Z0-9._\-]+`)},
	{"json api key", regexp.MustCompile(`"(?:api_key|apiKey|API_KEY)":\s*"[^"]+"`)},
	{"password", regexp.MustCompile(`(?i)(?:password|passwd|pwd)\s*[:=]\s*"[^"]+"`)},
	{"google api key", regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`)},
	{"github token", regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36}`)},
	{"private key", regexp.MustCompile(`-----BEGIN (?:RSA |DSA |EC |OPENSSH )?PRIVATE KEY-----`)},
}

var (
	ipPattern    = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
)

// Redactor implements ports.Redactor with the built-in secret rules.
type Redactor struct {
	rules []rule
}

func NewRedactor() *Redactor {
	return &Redactor{rules: secretRules}
}

// Redact replaces secrets with [REDACTED].
func (r *Redactor) Redact(text string) string {
	out, _ := r.RedactCount(text)
	return out
}

// RedactCount is Redact plus the number of replacements made.
func (r *Redactor) RedactCount(text string) (string, int) {
	n := 0
	for _, ru := range r.rules {
		text = ru.pattern.ReplaceAllStringFunc(text, func(string) string {
			n++
			return placeholder
		})
	}
	return text, n
}

// RedactLog also masks IP addresses and emails.
func (r *Redactor) RedactLog(text string) string {
	out := r.Redact(text)
	out = ipPattern.ReplaceAllString(out, "[IP]")
	return emailPattern.ReplaceAllString(out, "[EMAIL]")
}

// Matches lists the names of rules that hit text.
func (r *Redactor) Matches(text string) []string {
	var names []string
	for _, ru := range r.rules {
		if ru.pattern.MatchString(text) {
			names = append(names, ru.name)
		}
	}
	return names
}

// Contains reports whether text holds any secret.
func (r *Redactor) Contains(text string) bool {
	return len(r.Matches(text)) > 0
}

// SummarizeRedactions describes a redaction count for status output.
func SummarizeRedactions(count int) string {
	switch count {
	case 0:
		return "no secrets redacted"
	case 1:
		return "redacted 1 secret"
	default:
		return fmt.Sprintf("redacted %d secrets", count)
	}
}
