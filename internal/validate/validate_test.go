package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIban(t *testing.T) {
	assert.True(t, Iban("GB82WEST12345698765432"))
	assert.True(t, Iban("ES9121000418450200051332"))

	// Un solo dígito alterado rompe el checksum mod-97.
	assert.False(t, Iban("GB82WEST12345698765431"))
	assert.False(t, Iban("GB82WEST12345698765433"))

	assert.False(t, Iban(""))
	assert.False(t, Iban("GB82WEST12"))                          // demasiado corto
	assert.False(t, Iban(strings.Repeat("1", 40)))               // demasiado largo
	assert.False(t, Iban("GB82 WEST 1234 5698 7654 32"))         // espacios no admitidos
	assert.False(t, Iban("gb82WEST12345698765432"))              // minúsculas no admitidas
	assert.False(t, Iban("GB82WEST1234569876543!"))              // carácter no alfanumérico
}

func TestIbanMutacionUltimoDigito(t *testing.T) {
	valid := "GB82WEST12345698765432"
	for d := byte('0'); d <= '9'; d++ {
		mutated := valid[:len(valid)-1] + string(d)
		if mutated == valid {
			assert.True(t, Iban(mutated))
			continue
		}
		assert.False(t, Iban(mutated), "mutación %s debería ser inválida", mutated)
	}
}

func TestCif(t *testing.T) {
	assert.True(t, Cif("A12345674"))
	assert.False(t, Cif("A12345679")) // dígito de control incorrecto

	assert.True(t, Cif("P1234567D")) // tipo con letra de control
	assert.False(t, Cif("P12345674"))

	assert.False(t, Cif(""))
	assert.False(t, Cif("A1234567"))   // 8 caracteres
	assert.False(t, Cif("A123456789")) // 10 caracteres
	assert.False(t, Cif("112345674"))  // primer carácter no es letra
	assert.False(t, Cif("A12X45674"))  // dígito central no numérico
	assert.False(t, Cif("T12345674"))  // letra de organización no admitida
}

func TestTarjeta(t *testing.T) {
	assert.True(t, Tarjeta("1234567812345670"))
	assert.False(t, Tarjeta("1234567812345671")) // falla Luhn

	assert.False(t, Tarjeta(""))
	assert.False(t, Tarjeta("123456781234567"))   // 15 dígitos
	assert.False(t, Tarjeta("12345678123456701")) // 17 dígitos
	assert.False(t, Tarjeta("123456781234567a"))  // no numérico
}
