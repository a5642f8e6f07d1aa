// Package isbn validates ISBN-10 and ISBN-13 identifiers by their check digit.
package isbn

// Lengths of the two ISBN forms, check character included.
const (
	Length10 = 10
	Length13 = 13
)

// IsValid reports whether s is a well-formed ISBN-10 or ISBN-13 whose check
// digit matches. Hyphens and spaces are not accepted; callers normalize first.
func IsValid(s string) bool {
	switch len(s) {
	case Length10:
		want, ok := CheckDigit10(s[:9])
		return ok && s[9] == want
	case Length13:
		want, ok := CheckDigit13(s[:12])
		return ok && s[12] == want
	default:
		return false
	}
}

// CheckDigit10 returns the check character for the first nine digits of an
// ISBN-10. A remainder of zero yields '0', ten yields 'X'.
func CheckDigit10(first9 string) (byte, bool) {
	if len(first9) != 9 || !allDigits(first9) {
		return 0, false
	}
	total := 0
	for i := 0; i < 9; i++ {
		total += int(first9[i]-'0') * (10 - i)
	}
	switch check := 11 - total%11; check {
	case 10:
		return 'X', true
	case 11:
		return '0', true
	default:
		return byte('0' + check), true
	}
}

// CheckDigit13 returns the check digit for the first twelve digits of an
// ISBN-13.
func CheckDigit13(first12 string) (byte, bool) {
	if len(first12) != 12 || !allDigits(first12) {
		return 0, false
	}
	total := 0
	for i := 0; i < 12; i++ {
		weight := 1
		if i%2 == 1 {
			weight = 3
		}
		total += int(first12[i]-'0') * weight
	}
	check := 10 - total%10
	if check == 10 {
		check = 0
	}
	return byte('0' + check), true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
