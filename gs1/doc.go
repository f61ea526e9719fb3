// Package gs1 decodes and validates GS1 element strings, the structured
// (AI, value) data carried by DataMatrix and Code 128 barcodes.
//
// # Decoding
//
// Two encodings are supported. The GS-separated form is what scanner hardware
// emits: AI digits immediately followed by the value, variable-length values
// terminated by an ASCII GS (0x1D) control character. The parenthesized form
// is the human-readable "(01)06923604463221(17)251231" notation. Decode()
// auto-detects the encoding, running both decoders when the input is
// ambiguous and preferring the cleaner result.
//
// AI detection in the GS-separated form tries 2-, 3- and 4-digit candidates
// at each position in that order; 3-digit codes are accepted only in the
// 240-255 sub-range and 4-digit codes only in the known prefix ranges, which
// disambiguates AI codes from value digits without a lookahead grammar.
//
// Decoding is pure: same input, same result. Tokenization failures are
// accumulated as positioned ParseErrors, never panics, and partial element
// lists remain usable.
//
// # Validation
//
// Validate() enriches a ParseResult against the vocabulary package: regex and
// length checks per element, mod-10 check digits on single-component numeric
// keys, requires (OR semantics) and excludes constraints across the element
// set, category bucketing, and primary-key identification. Unknown AIs stay
// in the output, marked invalid, with a global "Unknown AI" error recorded.
//
//	result, data := gs1.DecodeAndValidate(raw)
//	if data.Valid {
//	    gtin := data.AIMap["01"]
//	}
package gs1
