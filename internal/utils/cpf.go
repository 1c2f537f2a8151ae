package utils

import "strings"

// ValidCPF checks the two mod-11 verification digits of a Brazilian CPF.
// Punctuation is stripped first; repeated-digit sequences like
// 111.111.111-11 pass the arithmetic but are rejected as invalid.
func ValidCPF(cpf string) bool {
	digits := NormalizeCPF(cpf)
	if len(digits) != 11 {
		return false
	}
	allSame := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return checkDigit(digits, 9) && checkDigit(digits, 10)
}

// NormalizeCPF strips formatting so CPFs compare and join consistently.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func checkDigit(digits string, position int) bool {
	sum := 0
	weight := position + 1
	for i := 0; i < position; i++ {
		sum += int(digits[i]-'0') * weight
		weight--
	}
	expected := (sum * 10) % 11
	if expected == 10 {
		expected = 0
	}
	return expected == int(digits[position]-'0')
}
