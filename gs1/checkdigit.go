package gs1

// CheckDigitValid verifies the GS1 mod-10 check digit on a numeric key
// (GTIN, SSCC, GLN, GSIN and friends). The rightmost digit is the check
// digit; data digits are weighted 3,1,3,1,... starting from the digit
// adjacent to it.
func CheckDigitValid(value string) bool {
	if len(value) < 2 || !isDigits(value) {
		return false
	}
	sum := 0
	weight := 3
	for i := len(value) - 2; i >= 0; i-- {
		sum += int(value[i]-'0') * weight
		weight = 4 - weight // alternate 3 and 1
	}
	check := (10 - sum%10) % 10
	return int(value[len(value)-1]-'0') == check
}
