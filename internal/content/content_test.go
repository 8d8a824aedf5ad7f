package content

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		fields Fields
		want   string
	}{
		{"url", TypeURL, Fields{FieldValue: "https://exon.dev"}, "https://exon.dev"},
		{"text", TypeText, Fields{FieldValue: "hello; world"}, "hello; world"},
		{"email", TypeEmail, Fields{FieldValue: "a@b.com"}, "mailto:a@b.com"},
		{"phone", TypePhone, Fields{FieldValue: "+15551234"}, "tel:+15551234"},
		{"location", TypeLocation, Fields{FieldValue: "52.52,13.40"}, "geo:52.52,13.40"},
		{"wifi wpa", TypeWiFi, Fields{FieldSSID: "EXON", FieldPassword: "exon123", FieldSecurity: "WPA"}, "WIFI:S:EXON;T:WPA;P:exon123;;"},
		{"wifi open", TypeWiFi, Fields{FieldSSID: "X", FieldPassword: "", FieldSecurity: "None"}, "WIFI:S:X;T:;P:;;"},
		{"wifi wep", TypeWiFi, Fields{FieldSSID: "home", FieldPassword: "pw", FieldSecurity: SecurityWEP}, "WIFI:S:home;T:WEP;P:pw;;"},
		{"wifi wpa choice is the scanner token", TypeWiFi, Fields{FieldSSID: "home", FieldPassword: "pw", FieldSecurity: SecurityWPA}, "WIFI:S:home;T:WPA;P:pw;;"},
		{"wifi missing fields", TypeWiFi, nil, "WIFI:S:;T:;P:;;"},
		{"email missing value", TypeEmail, Fields{}, "mailto:"},
		{"unknown type", Type("vcard"), Fields{FieldValue: "raw"}, "raw"},
		{"delimiters are not escaped", TypeWiFi, Fields{FieldSSID: "a;b", FieldSecurity: "WPA"}, "WIFI:S:a;b;T:WPA;P:;;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.typ, tt.fields))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		payload string
		want    Fields
	}{
		{"email", TypeEmail, "mailto:a@b.com", Fields{FieldValue: "a@b.com"}},
		{"phone", TypePhone, "tel:123", Fields{FieldValue: "123"}},
		{"location", TypeLocation, "geo:1,2", Fields{FieldValue: "1,2"}},
		{"url", TypeURL, "https://x.y", Fields{FieldValue: "https://x.y"}},
		{"wifi", TypeWiFi, "WIFI:S:EXON;T:WPA;P:exon123;;", Fields{FieldSSID: "EXON", FieldPassword: "exon123", FieldSecurity: "WPA"}},
		{"wifi open", TypeWiFi, "WIFI:S:X;T:;P:;;", Fields{FieldSSID: "X", FieldPassword: "", FieldSecurity: SecurityNone}},
		{"wifi garbage", TypeWiFi, "nonsense", Fields{FieldSSID: "", FieldPassword: "", FieldSecurity: SecurityNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.typ, tt.payload))
		})
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types {
		got, ok := ParseType(string(typ))
		assert.True(t, ok)
		assert.Equal(t, typ, got)
	}
	_, ok := ParseType("vcard")
	assert.False(t, ok)
}

// plain generates field values without the WIFI: delimiters.
func plain() gopter.Gen {
	return gen.AlphaString()
}

func TestEncode_Pure(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("encoding twice yields the same payload", prop.ForAll(
		func(idx int, value, ssid, password string) bool {
			typ := Types[idx]
			fields := Fields{FieldValue: value, FieldSSID: ssid, FieldPassword: password, FieldSecurity: "WPA"}
			return Encode(typ, fields) == Encode(typ, fields.Clone())
		},
		gen.IntRange(0, len(Types)-1),
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestDecode_InvertsEncode(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("wifi fields survive encode/decode", prop.ForAll(
		func(ssid, password string, secIdx int) bool {
			security := []string{"WPA", SecurityWEP, SecurityNone}[secIdx]
			in := Fields{FieldSSID: ssid, FieldPassword: password, FieldSecurity: security}
			out := Decode(TypeWiFi, Encode(TypeWiFi, in))
			return out[FieldSSID] == ssid && out[FieldPassword] == password && out[FieldSecurity] == security
		},
		plain(),
		plain(),
		gen.IntRange(0, 2),
	))

	properties.Property("prefixed types survive encode/decode", prop.ForAll(
		func(idx int, value string) bool {
			typ := []Type{TypeURL, TypeText, TypeEmail, TypePhone, TypeLocation}[idx]
			return Decode(typ, Encode(typ, Fields{FieldValue: value}))[FieldValue] == value
		},
		gen.IntRange(0, 4),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
