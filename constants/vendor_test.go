package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVendor(t *testing.T) {
	tests := []struct {
		in   string
		want Vendor
		ok   bool
	}{
		{"dexcom", VendorDexcom, true},
		{" Clarity ", VendorDexcom, true},
		{"780G", VendorMedtronic780G, true},
		{"carelink", VendorMedtronic780G, true},
		{"LibreSnapshot", VendorLibreSnapshot, true},
		{"medtronicguardian", VendorMedtronicGuardian, true},
		{"", VendorUnknown, false},
		{"acme", VendorUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseVendor(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVendorsAsStringSlice(t *testing.T) {
	names := VendorsAsStringSlice()
	assert.Len(t, names, len(AllVendors()))
	assert.Contains(t, names, "Dexcom")
	assert.NotContains(t, names, "")
}
