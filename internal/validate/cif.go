package validate

import "strings"

const (
	// Letras de tipo de organización admitidas como primer carácter de un CIF.
	cifOrgLetters = "ABCDEFGHJNPQRSUVW"
	// Organizaciones cuyo carácter de control es siempre numérico.
	cifDigitControl = "ABEH"
	// Organizaciones cuyo carácter de control es siempre una letra.
	cifLetterControl = "NPQRSW"
	// Tabla de letras de control: índice = dígito de control calculado.
	cifControlTable = "JABCDEFGHI"
)

// Cif valida un CIF español: letra de organización + 7 dígitos + carácter de
// control. El control se calcula con sumas ponderadas alternas de los 7
// dígitos (posiciones impares duplicadas con reducción de cifras, pares tal
// cual) y se compara contra el dígito o la letra esperada según el tipo de
// organización.
func Cif(cif string) bool {
	if len(cif) != 9 {
		return false
	}

	org := cif[0]
	if !strings.ContainsRune(cifOrgLetters, rune(org)) {
		return false
	}

	sum := 0
	for i := 1; i <= 7; i++ {
		c := cif[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			// Posiciones impares: se duplican y se suman sus cifras.
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	control := (10 - sum%10) % 10

	last := cif[8]
	wantDigit := byte('0' + control)
	wantLetter := cifControlTable[control]

	switch {
	case strings.ContainsRune(cifDigitControl, rune(org)):
		return last == wantDigit
	case strings.ContainsRune(cifLetterControl, rune(org)):
		return last == wantLetter
	default:
		// El resto de tipos admite ambas formas de control.
		return last == wantDigit || last == wantLetter
	}
}
