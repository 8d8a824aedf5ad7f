// Package content turns a typed user intent into the exact payload string
// carried by the barcode.
package content

import "strings"

// Type is the kind of intent a barcode encodes.
type Type string

const (
	TypeURL      Type = "url"
	TypeWiFi     Type = "wifi"
	TypeText     Type = "text"
	TypeEmail    Type = "email"
	TypePhone    Type = "phone"
	TypeLocation Type = "location"
)

// Types lists every supported content type in display order.
var Types = []Type{TypeURL, TypeWiFi, TypeText, TypeEmail, TypePhone, TypeLocation}

// Field names read by Encode.
const (
	FieldValue    = "value"
	FieldSSID     = "ssid"
	FieldPassword = "password"
	FieldSecurity = "security"
)

// Wi-Fi security tokens as scanners read them. SecurityWPA covers WPA and
// WPA2 networks. Any other token is passed through verbatim.
const (
	SecurityWPA  = "WPA"
	SecurityWEP  = "WEP"
	SecurityNone = "None"
)

const (
	prefixEmail    = "mailto:"
	prefixPhone    = "tel:"
	prefixLocation = "geo:"
	prefixWiFi     = "WIFI:"
)

// Fields holds the raw form values for one content type.
type Fields map[string]string

// Get returns the named field or the empty string when it is missing.
func (f Fields) Get(name string) string {
	if f == nil {
		return ""
	}
	return f[name]
}

// Clone returns an independent copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// ParseType reports whether s names a supported content type.
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Encode derives the payload for t from fields. It never fails: missing fields
// read as empty strings and unknown types fall back to the raw value.
//
// Field values are not escaped. A ';' or ':' inside a Wi-Fi field shifts the
// WIFI: grammar and scanners will read garbage.
func Encode(t Type, fields Fields) string {
	switch t {
	case TypeEmail:
		return prefixEmail + fields.Get(FieldValue)
	case TypePhone:
		return prefixPhone + fields.Get(FieldValue)
	case TypeLocation:
		return prefixLocation + fields.Get(FieldValue)
	case TypeWiFi:
		return encodeWiFi(fields)
	default:
		return fields.Get(FieldValue)
	}
}

func encodeWiFi(fields Fields) string {
	security := fields.Get(FieldSecurity)
	if security == SecurityNone {
		security = ""
	}
	var b strings.Builder
	b.WriteString(prefixWiFi)
	b.WriteString("S:")
	b.WriteString(fields.Get(FieldSSID))
	b.WriteString(";T:")
	b.WriteString(security)
	b.WriteString(";P:")
	b.WriteString(fields.Get(FieldPassword))
	// scanners expect the record to end with ";;"
	b.WriteString(";;")
	return b.String()
}

// Decode is the inverse of Encode for payloads Encode produced from fields
// that contain no delimiter characters.
func Decode(t Type, payload string) Fields {
	switch t {
	case TypeEmail:
		return Fields{FieldValue: strings.TrimPrefix(payload, prefixEmail)}
	case TypePhone:
		return Fields{FieldValue: strings.TrimPrefix(payload, prefixPhone)}
	case TypeLocation:
		return Fields{FieldValue: strings.TrimPrefix(payload, prefixLocation)}
	case TypeWiFi:
		return decodeWiFi(payload)
	default:
		return Fields{FieldValue: payload}
	}
}

func decodeWiFi(payload string) Fields {
	out := Fields{FieldSSID: "", FieldPassword: "", FieldSecurity: SecurityNone}
	body := strings.TrimPrefix(payload, prefixWiFi)
	body = strings.TrimSuffix(body, ";;")
	for _, part := range strings.Split(body, ";") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		switch key {
		case "S":
			out[FieldSSID] = value
		case "P":
			out[FieldPassword] = value
		case "T":
			if value != "" {
				out[FieldSecurity] = value
			}
		}
	}
	return out
}
