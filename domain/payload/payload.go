package payload

import (
	"fmt"
	"strings"

	"github.com/prasetyowira/qrgen/constant"
)

// Kind labels what a payload represents. It is the "type" recorded in history.
type Kind string

const (
	KindWebsite Kind = "website"
	KindEmail   Kind = "email"
	KindPhone   Kind = "phone"
	KindSocial  Kind = "social"
	KindText    Kind = "text"
	KindWiFi    Kind = "wifi"
	KindVCard   Kind = "vcard"
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

var wifiEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	`:`, `\:`,
	`"`, `\"`,
)

var vcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	`,`, `\,`,
	`;`, `\;`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// BuildWiFi returns a WPA network join payload. ssid and password are trimmed;
// ssid must not be empty. Reserved characters are backslash-escaped.
func BuildWiFi(ssid, password string) (string, error) {
	ssid = strings.TrimSpace(ssid)
	password = strings.TrimSpace(password)
	if ssid == "" {
		return "", NewValidationError("ssid", constant.ErrEmptySSID)
	}
	return "WIFI:S:" + wifiEscaper.Replace(ssid) + ";T:WPA;P:" + wifiEscaper.Replace(password) + ";;", nil
}

// BuildVCard returns a vCard 3.0 block with FN, TEL and EMAIL lines.
// phone and email may be empty; name may not.
func BuildVCard(name, phone, email string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError("name", constant.ErrEmptyName)
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCARD\n")
	b.WriteString("VERSION:3.0\n")
	b.WriteString("FN:" + vcardEscaper.Replace(name) + "\n")
	b.WriteString("TEL:" + vcardEscaper.Replace(strings.TrimSpace(phone)) + "\n")
	b.WriteString("EMAIL:" + vcardEscaper.Replace(strings.TrimSpace(email)) + "\n")
	b.WriteString("END:VCARD")
	return b.String(), nil
}
