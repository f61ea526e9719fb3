package gs1

// Category buckets decoded elements for display grouping.
type Category string

const (
	// CategoryIdentification covers item/piece identifiers (GTIN, ITIP, ...)
	CategoryIdentification Category = "identification"
	// CategoryDates covers the six YYMMDD date AIs
	CategoryDates Category = "dates"
	// CategoryMeasurements covers trade and logistic measures (3nxx)
	CategoryMeasurements Category = "measurements"
	// CategoryLogistics covers counts, consignment and shipment AIs
	CategoryLogistics Category = "logistics"
	// CategoryOther catches everything else, including unknown AIs
	CategoryOther Category = "other"
)

// Categorize maps an AI code to its display category using fixed rules.
// Identification is checked first so 8006/8026 do not fall into the 8001-8020
// logistics span.
func Categorize(ai string) Category {
	switch ai {
	case "01", "02", "03", "8006", "8026", "8200":
		return CategoryIdentification
	case "11", "12", "13", "15", "16", "17":
		return CategoryDates
	case "00", "37":
		return CategoryLogistics
	}

	if len(ai) >= 2 && ai[0:2] == "24" {
		return CategoryIdentification
	}

	// 3[0-6]xx measurement span
	if len(ai) == 4 && ai[0] == '3' && ai[1] >= '0' && ai[1] <= '6' && isDigits(ai) {
		return CategoryMeasurements
	}

	// 40[0-3]x routing/order span, matched at three digits (400-403) or the
	// full four-digit codes 4000-4039
	if (len(ai) == 3 || len(ai) == 4) && ai[0] == '4' && ai[1] == '0' &&
		ai[2] >= '0' && ai[2] <= '3' && isDigits(ai) {
		return CategoryLogistics
	}

	// 8001-8020 special logistics span
	if len(ai) == 4 && ai[0:2] == "80" && isDigits(ai) {
		if n := int(ai[2]-'0')*10 + int(ai[3]-'0'); n >= 1 && n <= 20 {
			return CategoryLogistics
		}
	}

	return CategoryOther
}
