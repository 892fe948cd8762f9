package constants

import (
	"strings"
)

// Vendor tags the report format family that selects an extractor.
type Vendor string

const (
	VendorUnknown           Vendor = ""
	VendorDexcom            Vendor = "Dexcom"
	VendorGlooko            Vendor = "Glooko"
	VendorLibreAGP          Vendor = "LibreAGP"
	VendorLibreSnapshot     Vendor = "LibreSnapshot"
	VendorMedtronic640G     Vendor = "Medtronic640G"
	VendorMedtronic780G     Vendor = "Medtronic780G"
	VendorMedtronicGuardian Vendor = "MedtronicGuardian"
)

var allVendors = []Vendor{
	VendorDexcom,
	VendorGlooko,
	VendorLibreAGP,
	VendorLibreSnapshot,
	VendorMedtronic640G,
	VendorMedtronic780G,
	VendorMedtronicGuardian,
}

// AllVendors returns every known vendor tag, VendorUnknown excluded.
func AllVendors() []Vendor {
	out := make([]Vendor, len(allVendors))
	copy(out, allVendors)
	return out
}

func VendorsAsStringSlice() []string {
	result := make([]string, len(allVendors))
	for i, v := range allVendors {
		result[i] = string(v)
	}
	return result
}

// ParseVendor maps a user supplied name (CLI flag, request field) to a Vendor.
func ParseVendor(input string) (Vendor, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return VendorUnknown, false
	}

	synonyms := map[string]Vendor{
		"dexcom":     VendorDexcom,
		"clarity":    VendorDexcom,
		"glooko":     VendorGlooko,
		"diasend":    VendorGlooko,
		"libre":      VendorLibreAGP,
		"agp":        VendorLibreAGP,
		"snapshot":   VendorLibreSnapshot,
		"640g":       VendorMedtronic640G,
		"780g":       VendorMedtronic780G,
		"guardian":   VendorMedtronicGuardian,
		"carelink":   VendorMedtronic780G,
		"minimed640": VendorMedtronic640G,
		"minimed780": VendorMedtronic780G,
	}
	if v, ok := synonyms[normalized]; ok {
		return v, true
	}

	for _, v := range allVendors {
		if normalized == strings.ToLower(string(v)) {
			return v, true
		}
	}
	return VendorUnknown, false
}
