package pipeline

import (
	"strings"

	"specsheet/internal"
)

// Schemas maps each product type to its fixed output column set. Every
// extraction emits every column of the active schema, defaulting to "N/A".
var Schemas = map[internal.ProductType][]string{
	internal.TypeLEDIndicator: {
		"SERIES", "MOUNTING HOLE", "BEZEL STYLE", "TERMINALS", "BEZEL FINISH",
		"TYPE OF ILLUMINATION", "LED COLOR", "VOLTAGE", "SEALING",
	},
	internal.TypePaddleJoystick: {
		"SERIES", "CONFIGURATION", "GAIN", "LEVER OPERATION", "HANDLE",
		"DETAIL COLOR", "SWITCHING POINTS", "MODIFIER",
	},
	internal.TypeThumbstickJoystick: {
		"SERIES", "LOWER FACE BUTTONS", "UPPER FACE BUTTONS", "OPERATOR PRESENCE PADDLE",
		"LIMITER PLATE", "SPRING TENSION", "OUTPUT OPTIONS", "ADDITIONAL OPTIONS",
	},
	internal.TypeFingertipJoystick: {
		"SERIES", "CONFIGURATION", "AXIS", "OUTPUT", "VOLTAGE", "SEALING",
		"MOUNTING", "OPTIONS",
	},
	internal.TypeTerminalBlock: {
		"SERIES", "TERMINAL TYPE", "WIRE RANGE", "RATING", "MOUNTING",
		"CERTIFICATIONS", "MATERIAL", "MARKING",
	},
}

var productTypeLabels = map[internal.ProductType]string{
	internal.TypeLEDIndicator:       "LED Indicator",
	internal.TypePaddleJoystick:     "Paddle Joystick",
	internal.TypeThumbstickJoystick: "Thumbstick Joystick",
	internal.TypeFingertipJoystick:  "Fingertip Joystick",
	internal.TypeTerminalBlock:      "Terminal Block",
}

func ProductTypeLabel(pt internal.ProductType) string {
	if label, ok := productTypeLabels[pt]; ok {
		return label
	}
	return "Unknown"
}

var ledIndicatorKeywords = []string{
	"indicator", "pilot light", "pushbutton", "illuminated", "led lens", "panel mount indicator",
}

// DetectProductType selects the field schema and extraction routine set.
// Series literals in the filename are checked first (most reliable), then
// keyword scans over the text; LED indicator is the general fallback.
func DetectProductType(text, filename string) internal.ProductType {
	textLower := strings.ToLower(text)
	filenameLower := strings.ToLower(filename)

	if strings.Contains(filenameLower, "bhn") || strings.Contains(textLower, "bhn series") {
		return internal.TypePaddleJoystick
	}
	if strings.Contains(leadingToken(filenameLower, "_"), "cj") || strings.Contains(textLower, "cj series") {
		return internal.TypeThumbstickJoystick
	}
	if strings.Contains(leadingToken(filenameLower, " "), "xs") || strings.Contains(textLower, "xs series") {
		return internal.TypeFingertipJoystick
	}

	// FT1J/FT2J operator interfaces and HS1T interlock switches share the
	// LED indicator field set
	if strings.Contains(filenameLower, "ft1j") || strings.Contains(filenameLower, "ft2j") ||
		strings.Contains(textLower, "controller with operator interface") {
		return internal.TypeLEDIndicator
	}
	if strings.Contains(filenameLower, "hs1t") || strings.Contains(textLower, "interlock switch") {
		return internal.TypeLEDIndicator
	}

	if strings.Contains(filenameLower, "bn-w") || strings.Contains(filenameLower, "bnh-w") {
		return internal.TypeTerminalBlock
	}

	if strings.Contains(textLower, "paddle joystick") || strings.Contains(textLower, "paddle controller") {
		return internal.TypePaddleJoystick
	}
	if strings.Contains(textLower, "hand grip") || strings.Contains(textLower, "fingertip joystick") {
		return internal.TypeThumbstickJoystick
	}
	if strings.Contains(textLower, "fingertip controller") || strings.Contains(textLower, "proportional fingertip") {
		return internal.TypeFingertipJoystick
	}

	for _, kw := range ledIndicatorKeywords {
		if strings.Contains(textLower, kw) {
			return internal.TypeLEDIndicator
		}
	}

	return internal.TypeLEDIndicator
}

func leadingToken(s, sep string) string {
	if idx := strings.Index(s, sep); idx >= 0 {
		return s[:idx]
	}
	return s
}
