// Package validate contiene las validaciones puras de identificadores
// bancarios (IBAN, CIF, número de tarjeta). Ninguna función hace I/O ni
// devuelve error: un identificador es válido o no lo es.
package validate

import "math/big"

// ISO 13616: la longitud real depende del país; aceptamos el rango completo.
const (
	ibanMinLen = 15
	ibanMaxLen = 34
)

var mod97 = big.NewInt(97)

// Iban valida un IBAN mediante el checksum mod-97 de ISO 13616:
// se mueven los 4 primeros caracteres al final, las letras se convierten
// a números (A=10..Z=35) y el resto de dividir entre 97 debe ser 1.
func Iban(iban string) bool {
	if len(iban) < ibanMinLen || len(iban) > ibanMaxLen {
		return false
	}

	rearranged := iban[4:] + iban[:4]
	digits := make([]byte, 0, len(rearranged)*2)
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		case c >= 'A' && c <= 'Z':
			n := c - 'A' + 10
			digits = append(digits, '0'+n/10, '0'+n%10)
		default:
			return false
		}
	}

	value, ok := new(big.Int).SetString(string(digits), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(value, mod97).Int64() == 1
}
