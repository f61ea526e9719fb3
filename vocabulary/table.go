package vocabulary

import "fmt"

// Built-in GS1 Application Identifier table.
//
// Codes 90-99 (company-internal information) are deliberately not registered:
// their meaning is private to the issuing company, so elements using them
// surface as "unknown AI" and downstream consumers decide what to do.
//
// The cset82 class covers the GS1 "CSET 82" alphanumeric set. The decoder has
// already stripped GS separators by the time values reach validation, so the
// printable-ASCII approximation is sufficient here.
const cset82 = `[!-~]`

func init() {
	registerBuiltins()
}

func registerBuiltins() {
	// Identification
	Register("00",
		WithTitle("SSCC"),
		WithDescription("Serial Shipping Container Code"),
		WithFormat("N2+N18"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 18, CheckDigit: true}),
		WithPattern(`^\d{18}$`),
		WithPrimaryKey())

	Register("01",
		WithTitle("GTIN"),
		WithDescription("Global Trade Item Number"),
		WithFormat("N2+N14"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 14, CheckDigit: true}),
		WithPattern(`^\d{14}$`),
		WithPrimaryKey())

	Register("02",
		WithTitle("CONTENT"),
		WithDescription("GTIN of contained trade items"),
		WithFormat("N2+N14"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 14, CheckDigit: true}),
		WithPattern(`^\d{14}$`),
		WithRequires("37"),
		WithExcludes("01"))

	Register("03",
		WithTitle("MTO GTIN"),
		WithDescription("GTIN of a made-to-order trade item"),
		WithFormat("N2+N14"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 14, CheckDigit: true}),
		WithPattern(`^\d{14}$`))

	Register("10",
		WithTitle("BATCH/LOT"),
		WithDescription("Batch or lot number"),
		WithFormat("N2+X..20"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 20}),
		WithPattern(`^`+cset82+`{1,20}$`))

	// Dates (YYMMDD)
	dates := []struct{ code, title, desc string }{
		{"11", "PROD DATE", "Production date"},
		{"12", "DUE DATE", "Payment due date"},
		{"13", "PACK DATE", "Packaging date"},
		{"15", "BEST BEFORE", "Best before date"},
		{"16", "SELL BY", "Sell by date"},
		{"17", "USE BY", "Expiration date"},
	}
	for _, d := range dates {
		Register(d.code,
			WithTitle(d.title),
			WithDescription(d.desc),
			WithFormat("N2+N6"),
			WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 6}),
			WithPattern(`^\d{6}$`))
	}

	Register("20",
		WithTitle("VARIANT"),
		WithDescription("Internal product variant"),
		WithFormat("N2+N2"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 2}),
		WithPattern(`^\d{2}$`))

	Register("21",
		WithTitle("SERIAL"),
		WithDescription("Serial number"),
		WithFormat("N2+X..20"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 20}),
		WithPattern(`^`+cset82+`{1,20}$`),
		WithRequires("01", "8006"))

	Register("22",
		WithTitle("CPV"),
		WithDescription("Consumer product variant"),
		WithFormat("N2+X..20"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 20}),
		WithPattern(`^`+cset82+`{1,20}$`),
		WithRequires("01"))

	// Extended identification (240-255 sub-range)
	Register("240",
		WithTitle("ADDITIONAL ID"),
		WithDescription("Additional product identification assigned by the manufacturer"),
		WithFormat("N3+X..30"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 30}),
		WithPattern(`^`+cset82+`{1,30}$`),
		WithRequires("01", "02", "8006"))

	Register("241",
		WithTitle("CUST. PART NO."),
		WithDescription("Customer part number"),
		WithFormat("N3+X..30"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 30}),
		WithPattern(`^`+cset82+`{1,30}$`),
		WithRequires("01", "02", "8006"))

	Register("242",
		WithTitle("MTO VARIANT"),
		WithDescription("Made-to-order variation number"),
		WithFormat("N3+N..6"),
		WithComponents(Component{Type: ComponentNumeric, Length: 6}),
		WithPattern(`^\d{1,6}$`),
		WithRequires("01", "02", "03", "8006"))

	Register("243",
		WithTitle("PCN"),
		WithDescription("Packaging component number"),
		WithFormat("N3+X..20"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 20}),
		WithPattern(`^`+cset82+`{1,20}$`))

	Register("250",
		WithTitle("SECONDARY SERIAL"),
		WithDescription("Secondary serial number"),
		WithFormat("N3+X..30"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 30}),
		WithPattern(`^`+cset82+`{1,30}$`),
		WithRequires("21"))

	Register("251",
		WithTitle("REF. TO SOURCE"),
		WithDescription("Reference to source entity"),
		WithFormat("N3+X..30"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 30}),
		WithPattern(`^`+cset82+`{1,30}$`),
		WithRequires("01", "8006"))

	Register("253",
		WithTitle("GDTI"),
		WithDescription("Global Document Type Identifier"),
		WithFormat("N3+N13+X..17"),
		WithComponents(
			Component{Type: ComponentNumeric, FixedLength: true, Length: 13, CheckDigit: true},
			Component{Type: ComponentAlphanumeric, Optional: true, Length: 17},
		),
		WithPattern(`^\d{13}`+cset82+`{0,17}$`),
		WithPrimaryKey())

	Register("254",
		WithTitle("GLN EXTENSION"),
		WithDescription("GLN extension component"),
		WithFormat("N3+X..20"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 20}),
		WithPattern(`^`+cset82+`{1,20}$`),
		WithRequires("414"))

	Register("255",
		WithTitle("GCN"),
		WithDescription("Global Coupon Number"),
		WithFormat("N3+N13+N..12"),
		WithComponents(
			Component{Type: ComponentNumeric, FixedLength: true, Length: 13, CheckDigit: true},
			Component{Type: ComponentNumeric, Optional: true, Length: 12},
		),
		WithPattern(`^\d{13}\d{0,12}$`),
		WithPrimaryKey())

	// Counts
	Register("30",
		WithTitle("VAR. COUNT"),
		WithDescription("Variable count of items"),
		WithFormat("N2+N..8"),
		WithComponents(Component{Type: ComponentNumeric, Length: 8}),
		WithPattern(`^\d{1,8}$`))

	Register("37",
		WithTitle("COUNT"),
		WithDescription("Count of trade items contained in a logistic unit"),
		WithFormat("N2+N..8"),
		WithComponents(Component{Type: ComponentNumeric, Length: 8}),
		WithPattern(`^\d{1,8}$`),
		WithRequires("00", "02"))

	// Trade and logistic measures. The fourth digit is the implied decimal
	// point position, so each family registers codes <family>0 .. <family>5.
	measures := []struct{ family, title, desc string }{
		{"310", "NET WEIGHT (kg)", "Net weight in kilograms"},
		{"311", "LENGTH (m)", "Length or first dimension in metres"},
		{"312", "WIDTH (m)", "Width, diameter or second dimension in metres"},
		{"313", "HEIGHT (m)", "Depth, thickness, height or third dimension in metres"},
		{"314", "AREA (m2)", "Area in square metres"},
		{"315", "NET VOLUME (l)", "Net volume in litres"},
		{"316", "NET VOLUME (m3)", "Net volume in cubic metres"},
		{"320", "NET WEIGHT (lb)", "Net weight in pounds"},
		{"330", "GROSS WEIGHT (kg)", "Logistic gross weight in kilograms"},
		{"331", "LENGTH (m), log", "Logistic length or first dimension in metres"},
		{"332", "WIDTH (m), log", "Logistic width, diameter or second dimension in metres"},
		{"333", "HEIGHT (m), log", "Logistic depth, thickness or height in metres"},
		{"335", "VOLUME (l), log", "Logistic volume in litres"},
		{"336", "VOLUME (m3), log", "Logistic volume in cubic metres"},
		{"356", "NET WEIGHT (t oz)", "Net weight in troy ounces"},
	}
	for _, m := range measures {
		for decimals := 0; decimals <= 5; decimals++ {
			Register(fmt.Sprintf("%s%d", m.family, decimals),
				WithTitle(m.title),
				WithDescription(m.desc),
				WithFormat("N4+N6"),
				WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 6}),
				WithPattern(`^\d{6}$`))
		}
	}

	// Logistics and parties
	Register("400",
		WithTitle("ORDER NUMBER"),
		WithDescription("Customer purchase order number"),
		WithFormat("N3+X..30"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 30}),
		WithPattern(`^`+cset82+`{1,30}$`))

	Register("401",
		WithTitle("GINC"),
		WithDescription("Global Identification Number for Consignment"),
		WithFormat("N3+X..30"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 30}),
		WithPattern(`^`+cset82+`{1,30}$`),
		WithPrimaryKey())

	Register("402",
		WithTitle("GSIN"),
		WithDescription("Global Shipment Identification Number"),
		WithFormat("N3+N17"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 17, CheckDigit: true}),
		WithPattern(`^\d{17}$`),
		WithPrimaryKey())

	Register("403",
		WithTitle("ROUTE"),
		WithDescription("Routing code"),
		WithFormat("N3+X..30"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 30}),
		WithPattern(`^`+cset82+`{1,30}$`),
		WithRequires("00"))

	glns := []struct{ code, title, desc string }{
		{"410", "SHIP TO LOC", "Ship to / deliver to Global Location Number"},
		{"411", "BILL TO", "Bill to / invoice to Global Location Number"},
		{"412", "PURCHASED FROM", "Purchased from Global Location Number"},
		{"413", "SHIP FOR LOC", "Ship for / deliver for / forward to Global Location Number"},
		{"414", "LOC No.", "Physical location Global Location Number"},
		{"415", "PAY TO", "Invoicing party Global Location Number"},
		{"416", "PROD/SERV LOC", "Production or service location Global Location Number"},
		{"417", "PARTY", "Party Global Location Number"},
	}
	for _, g := range glns {
		opts := []Option{
			WithTitle(g.title),
			WithDescription(g.desc),
			WithFormat("N3+N13"),
			WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 13, CheckDigit: true}),
			WithPattern(`^\d{13}$`),
		}
		if g.code == "414" || g.code == "417" {
			opts = append(opts, WithPrimaryKey())
		}
		Register(g.code, opts...)
	}

	Register("420",
		WithTitle("SHIP TO POST"),
		WithDescription("Ship to / deliver to postal code"),
		WithFormat("N3+X..20"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 20}),
		WithPattern(`^`+cset82+`{1,20}$`))

	Register("422",
		WithTitle("ORIGIN"),
		WithDescription("Country of origin (ISO 3166 numeric)"),
		WithFormat("N3+N3"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 3}),
		WithPattern(`^\d{3}$`))

	Register("424",
		WithTitle("COUNTRY - PROCESS"),
		WithDescription("Country of processing (ISO 3166 numeric)"),
		WithFormat("N3+N3"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 3}),
		WithPattern(`^\d{3}$`))

	// Special applications (8xxx)
	Register("8001",
		WithTitle("DIMENSIONS"),
		WithDescription("Roll products: width, length, core diameter, direction, splices"),
		WithFormat("N4+N14"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 14}),
		WithPattern(`^\d{14}$`))

	Register("8003",
		WithTitle("GRAI"),
		WithDescription("Global Returnable Asset Identifier"),
		WithFormat("N4+N14+X..16"),
		WithComponents(
			Component{Type: ComponentNumeric, FixedLength: true, Length: 14, CheckDigit: true},
			Component{Type: ComponentAlphanumeric, Optional: true, Length: 16},
		),
		WithPattern(`^\d{14}`+cset82+`{0,16}$`),
		WithPrimaryKey())

	Register("8004",
		WithTitle("GIAI"),
		WithDescription("Global Individual Asset Identifier"),
		WithFormat("N4+X..30"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 30}),
		WithPattern(`^`+cset82+`{1,30}$`),
		WithPrimaryKey())

	Register("8005",
		WithTitle("PRICE PER UNIT"),
		WithDescription("Price per unit of measure"),
		WithFormat("N4+N6"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 6}),
		WithPattern(`^\d{6}$`))

	Register("8006",
		WithTitle("ITIP"),
		WithDescription("Identification of an individual trade item piece"),
		WithFormat("N4+N14+N2+N2"),
		WithComponents(
			Component{Type: ComponentNumeric, FixedLength: true, Length: 14, CheckDigit: true},
			Component{Type: ComponentNumeric, FixedLength: true, Length: 2},
			Component{Type: ComponentNumeric, FixedLength: true, Length: 2},
		),
		WithPattern(`^\d{18}$`),
		WithExcludes("01"),
		WithPrimaryKey())

	Register("8008",
		WithTitle("PROD TIME"),
		WithDescription("Date and time of production"),
		WithFormat("N4+N8+N..4"),
		WithComponents(
			Component{Type: ComponentNumeric, FixedLength: true, Length: 8},
			Component{Type: ComponentNumeric, Optional: true, Length: 4},
		),
		WithPattern(`^\d{8}\d{0,4}$`))

	Register("8011",
		WithTitle("CPID SERIAL"),
		WithDescription("Component / part identifier serial number"),
		WithFormat("N4+N..12"),
		WithComponents(Component{Type: ComponentNumeric, Length: 12}),
		WithPattern(`^\d{1,12}$`))

	Register("8017",
		WithTitle("GSRN - PROVIDER"),
		WithDescription("Global Service Relation Number, service provider"),
		WithFormat("N4+N18"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 18, CheckDigit: true}),
		WithPattern(`^\d{18}$`),
		WithPrimaryKey())

	Register("8018",
		WithTitle("GSRN - RECIPIENT"),
		WithDescription("Global Service Relation Number, service recipient"),
		WithFormat("N4+N18"),
		WithComponents(Component{Type: ComponentNumeric, FixedLength: true, Length: 18, CheckDigit: true}),
		WithPattern(`^\d{18}$`),
		WithPrimaryKey())

	Register("8019",
		WithTitle("SRIN"),
		WithDescription("Service relation instance number"),
		WithFormat("N4+N..10"),
		WithComponents(Component{Type: ComponentNumeric, Length: 10}),
		WithPattern(`^\d{1,10}$`),
		WithRequires("8017", "8018"))

	Register("8020",
		WithTitle("REF No."),
		WithDescription("Payment slip reference number"),
		WithFormat("N4+X..25"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 25}),
		WithPattern(`^`+cset82+`{1,25}$`),
		WithRequires("415"))

	Register("8026",
		WithTitle("ITIP CONTENT"),
		WithDescription("ITIP of contained trade item pieces"),
		WithFormat("N4+N14+N2+N2"),
		WithComponents(
			Component{Type: ComponentNumeric, FixedLength: true, Length: 14, CheckDigit: true},
			Component{Type: ComponentNumeric, FixedLength: true, Length: 2},
			Component{Type: ComponentNumeric, FixedLength: true, Length: 2},
		),
		WithPattern(`^\d{18}$`),
		WithRequires("37"))

	Register("8200",
		WithTitle("PRODUCT URL"),
		WithDescription("Extended packaging URL"),
		WithFormat("N4+X..70"),
		WithComponents(Component{Type: ComponentAlphanumeric, Length: 70}),
		WithPattern(`^`+cset82+`{1,70}$`),
		WithRequires("01"))
}
