package domain

import "strings"

const apaczkaPrefix = "APACZKA_"

var courierNames = map[string]string{
	"TBA":       "To be arranged (TBA)",
	"SIODEMKA":  "Siódemka",
	"UPS":       "UPS",
	"GLS":       "GLS",
	"DPD":       "DPD",
	"DHL":       "DHL",
	"FEDEX":     "FedEx",
	"POCZTEX":   "Pocztex",
	"POCZTEX48": "Pocztex 48h",
	"INPOST":    "InPost",
	"GEIS":      "Geis",
	"AMBRO":     "Ambro Express",
	"SUUS":      "Rohlig Suus",
}

// FormatCourierName turns an API courier code into a human-readable name.
func FormatCourierName(raw string) string {
	if raw == "" {
		return "Unknown courier"
	}

	if name, ok := courierNames[raw]; ok {
		return name
	}

	// Couriers brokered through Apaczka.
	if strings.HasPrefix(raw, apaczkaPrefix) {
		clean := strings.ReplaceAll(strings.Replace(raw, apaczkaPrefix, "", 1), "_", " ")
		switch {
		case strings.Contains(clean, "INPOST"):
			return "InPost (via Apaczka)"
		case strings.Contains(clean, "DHL"):
			return "DHL (via Apaczka)"
		case strings.Contains(clean, "UPS"):
			return "UPS " + strings.Replace(clean, "UPS ", "", 1)
		}
		return clean
	}

	return strings.ReplaceAll(raw, "_", " ")
}
