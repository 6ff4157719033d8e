package pii

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		kind     Kind
		expected string
		count    int
	}{
		{
			name:     "single email",
			text:     "Contact ada@example.com for details",
			kind:     Email,
			expected: "Contact |||EMAIL_ADDRESS||| for details",
			count:    1,
		},
		{
			name:     "uppercase email",
			text:     "ADA.LOVELACE@EXAMPLE.ORG",
			kind:     Email,
			expected: "|||EMAIL_ADDRESS|||",
			count:    1,
		},
		{
			name:     "phone formats",
			text:     "Call (283) 182-3829 or 283-182-3829 or +1 283.182.3829",
			kind:     Phone,
			expected: "Call |||PHONE_NUMBER||| or |||PHONE_NUMBER||| or |||PHONE_NUMBER|||",
			count:    3,
		},
		{
			name:     "ip address",
			text:     "server at 192.168.0.1 responded",
			kind:     IPAddress,
			expected: "server at |||IP_ADDRESS||| responded",
			count:    1,
		},
		{
			name:     "invalid octet not masked",
			text:     "version 999.1.1.1",
			kind:     IPAddress,
			expected: "version 999.1.1.1",
			count:    0,
		},
		{
			name:     "no match",
			text:     "nothing to see here",
			kind:     Email,
			expected: "nothing to see here",
			count:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masked, count := Mask(tt.text, tt.kind)
			assert.Equal(t, tt.expected, masked)
			assert.Equal(t, tt.count, count)
		})
	}
}

func TestMaskAll(t *testing.T) {
	text := "mail ada@example.com, call 283-182-3829, ping 10.0.0.1"
	masked, counts := MaskAll(text)

	assert.Equal(t, "mail |||EMAIL_ADDRESS|||, call |||PHONE_NUMBER|||, ping |||IP_ADDRESS|||", masked)
	assert.Equal(t, 1, counts[Email])
	assert.Equal(t, 1, counts[Phone])
	assert.Equal(t, 1, counts[IPAddress])
	assert.Equal(t, 3, counts.Total())

	masked, counts = MaskAll(text, Email)
	assert.Equal(t, "mail |||EMAIL_ADDRESS|||, call 283-182-3829, ping 10.0.0.1", masked)
	assert.Equal(t, 1, counts.Total())
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds([]string{"email", "phone_number", "ip"})
	require.NoError(t, err)
	assert.Equal(t, []Kind{Email, Phone, IPAddress}, kinds)

	_, err = ParseKinds([]string{"email", "ssn"})
	assert.Error(t, err)

	assert.Equal(t, "phone_number", Phone.String())
	assert.Equal(t, "", Kind(7).Placeholder())
}
